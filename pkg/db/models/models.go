package models

// All lists every model for schema automigration in sqlite dev/test setups.
// Order matters for foreign keys.
func All() []any {
	return []any{
		&Role{},
		&Permission{},
		&User{},
		&Country{},
		&Region{},
		&City{},
		&Address{},
		&EntityAddress{},
		&PastRentalHistory{},
		&Media{},
		&EntityMedia{},
		&Amenity{},
		&EntityAmenity{},
		&Utility{},
		&PaymentType{},
		&EntityBillable{},
		&ContractType{},
		&Contract{},
		&UnderContract{},
		&ContractInvoice{},
		&Invoice{},
		&InvoiceItem{},
		&PropertyUnitAssoc{},
		&Property{},
		&Units{},
		&PropertyAssignment{},
		&MaintenanceRequest{},
		&CalendarEvent{},
		&Tour{},
		&Message{},
		&MessageRecipient{},
		&TransactionType{},
		&Transaction{},
		&Company{},
		&UserCompany{},
	}
}
