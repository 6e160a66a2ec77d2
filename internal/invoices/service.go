package invoices

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/aspects"
	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

// Service exposes invoice CRUD through the orchestrator plus the lease-due
// report.
type Service interface {
	List(ctx context.Context, p pagination.Params) ([]models.Invoice, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	Create(ctx context.Context, doc orchestrator.Document) (any, error)
	Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error)
	Delete(ctx context.Context, id uuid.UUID) error
	LeasesDue(ctx context.Context, clientID *uuid.UUID, p pagination.Params) ([]models.Contract, int64, error)
}

type service struct {
	client *db.Client
	orch   *orchestrator.Orchestrator
	logg   *logger.Logger
}

func NewService(client *db.Client, orch *orchestrator.Orchestrator, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if orch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orchestrator is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{client: client, orch: orch, logg: logg}, nil
}

// Profile declares the invoice orchestration. Items are merged per element
// and the invoice amount is re-derived once all items have landed.
func Profile(resolver *aspects.Resolver) orchestrator.Profile {
	return orchestrator.Profile{
		Kind:     enums.EntityTypeInvoice,
		Persist:  persistInvoice,
		Reload:   reloadInvoice,
		Finalize: aspects.DeriveInvoiceAmount,
		Bindings: []orchestrator.Binding{
			{Key: "invoice_items", List: true, Handler: resolver.HandleInvoiceItem},
		},
	}
}

type invoiceFields struct {
	InvoiceID      *uuid.UUID      `json:"invoice_id,omitempty"`
	InvoiceNumber  string          `json:"invoice_number"`
	IssuedBy       *uuid.UUID      `json:"issued_by,omitempty"`
	IssuedTo       *uuid.UUID      `json:"issued_to,omitempty"`
	InvoiceDetails string          `json:"invoice_details"`
	InvoiceType    string          `json:"invoice_type"`
	InvoiceAmount  decimal.Decimal `json:"invoice_amount"`
	BillingDate    string          `json:"billing_date"`
	DatePaid       string          `json:"date_paid"`
	Status         string          `json:"status"`
	TransactionID  *uuid.UUID      `json:"transaction_id,omitempty"`
	ContractID     *uuid.UUID      `json:"contract_id,omitempty"`
}

var invoiceSchema = []string{
	"invoice_id", "invoice_number", "issued_by", "issued_to", "invoice_details",
	"invoice_type", "invoice_amount", "billing_date", "date_paid", "status", "transaction_id",
	"contract_id",
}

func persistInvoice(ctx context.Context, tx *gorm.DB, op orchestrator.Operation, doc orchestrator.Document, existingID *uuid.UUID) (uuid.UUID, error) {
	invoices := repo.New[models.Invoice](tx, "invoice_id")

	var fields invoiceFields
	fields.Status = enums.PaymentStatusPending.String()
	if op == orchestrator.OpUpdate {
		existing, err := invoices.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}
		fields.Status = existing.Status.String()
	}

	if err := orchestrator.Decode(doc.Project(invoiceSchema), &fields); err != nil {
		return uuid.Nil, err
	}

	status, err := enums.ParsePaymentStatus(fields.Status)
	if err != nil {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "status validation is incorrect: %v", err)
	}
	billingDate, err := orchestrator.ParseDate(fields.BillingDate)
	if err != nil {
		return uuid.Nil, err
	}
	datePaid, err := orchestrator.ParseDate(fields.DatePaid)
	if err != nil {
		return uuid.Nil, err
	}

	if op == orchestrator.OpUpdate {
		existing, err := invoices.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}
		updates := map[string]any{
			"invoice_details": fields.InvoiceDetails,
			"invoice_type":    fields.InvoiceType,
			"status":          status,
		}
		if fields.IssuedBy != nil {
			updates["issued_by"] = fields.IssuedBy
		}
		if fields.IssuedTo != nil {
			updates["issued_to"] = fields.IssuedTo
		}
		if billingDate != nil {
			updates["billing_date"] = billingDate
		}
		if datePaid != nil {
			updates["date_paid"] = datePaid
		}
		if fields.TransactionID != nil {
			updates["transaction_id"] = fields.TransactionID
		}
		if _, err := invoices.Update(ctx, existing, updates); err != nil {
			return uuid.Nil, err
		}
		if err := linkContract(ctx, tx, fields.ContractID, existing.InvoiceNumber); err != nil {
			return uuid.Nil, err
		}
		return existing.InvoiceID, nil
	}

	invoice := &models.Invoice{
		InvoiceNumber:  fields.InvoiceNumber,
		IssuedBy:       fields.IssuedBy,
		IssuedTo:       fields.IssuedTo,
		InvoiceDetails: fields.InvoiceDetails,
		InvoiceType:    fields.InvoiceType,
		InvoiceAmount:  fields.InvoiceAmount,
		BillingDate:    billingDate,
		DatePaid:       datePaid,
		Status:         status,
		TransactionID:  fields.TransactionID,
	}
	if fields.InvoiceID != nil {
		invoice.InvoiceID = *fields.InvoiceID
	}

	created, err := invoices.Create(ctx, invoice)
	if err != nil {
		return uuid.Nil, err
	}
	if err := linkContract(ctx, tx, fields.ContractID, created.InvoiceNumber); err != nil {
		return uuid.Nil, err
	}
	return created.InvoiceID, nil
}

// linkContract records the invoice against its contract. Re-linking the same
// pair is a no-op.
func linkContract(ctx context.Context, tx *gorm.DB, contractID *uuid.UUID, invoiceNumber string) error {
	if contractID == nil {
		return nil
	}

	contracts := repo.New[models.Contract](tx, "contract_id")
	if _, err := contracts.Get(ctx, *contractID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "contract %q does not exist", contractID)
		}
		return err
	}

	links := repo.New[models.ContractInvoice](tx, "contract_invoice_id")
	_, _, err := links.QueryOnCreate(ctx,
		map[string]any{"contract_id": *contractID, "invoice_number": invoiceNumber},
		func() *models.ContractInvoice {
			return &models.ContractInvoice{ContractID: *contractID, InvoiceNumber: invoiceNumber}
		},
	)
	return err
}

func reloadInvoice(ctx context.Context, tx *gorm.DB, id uuid.UUID) (any, error) {
	invoices := repo.New[models.Invoice](tx, "invoice_id")
	return invoices.Get(ctx, id, "Items")
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]models.Invoice, int64, error) {
	invoices := repo.New[models.Invoice](s.client.DB(), "invoice_id")
	return invoices.GetAll(ctx, p, "Items")
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoices := repo.New[models.Invoice](s.client.DB(), "invoice_id")
	return invoices.Get(ctx, id, "Items")
}

func (s *service) Create(ctx context.Context, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeInvoice, orchestrator.OpCreate, doc, nil)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeInvoice, orchestrator.OpUpdate, doc, &id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	invoices := repo.New[models.Invoice](s.client.DB(), "invoice_id")
	return invoices.Delete(ctx, id)
}

// LeasesDue reports active lease contracts with pending payment, filtered
// across the contract-type, contract and under-contract joins. A client id
// narrows the report to that user's leases.
func (s *service) LeasesDue(ctx context.Context, clientID *uuid.UUID, p pagination.Params) ([]models.Contract, int64, error) {
	contracts := repo.New[models.Contract](s.client.DB(), "contract_id")

	filters := map[string]any{
		"contract_types.contract_type_name": "lease",
		"contracts.contract_status":         enums.ContractStatusActive,
		"under_contract.contract_status":    enums.ContractStatusActive,
	}
	if clientID != nil {
		filters["under_contract.client_id"] = *clientID
	}
	joins := []string{
		"JOIN contract_types ON contract_types.contract_type_id = contracts.contract_type_id",
		"JOIN under_contract ON under_contract.contract_id = contracts.contract_id",
	}
	return contracts.QueryOnJoins(ctx, filters, joins, p, "ContractType", "PaymentType", "UnderContracts")
}
