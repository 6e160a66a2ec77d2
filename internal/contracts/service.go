package contracts

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

// Projection is the contract read model: reference names are projected next
// to their ids.
type Projection struct {
	models.Contract
	ContractTypeValue string `json:"contract_type_value"`
	PaymentTypeValue  string `json:"payment_type_value"`
}

// Service exposes contract CRUD through the orchestrator plus the
// under-contract collection.
type Service interface {
	List(ctx context.Context, p pagination.Params) ([]Projection, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*Projection, error)
	Create(ctx context.Context, doc orchestrator.Document) (any, error)
	Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListUnderContracts(ctx context.Context, p pagination.Params) ([]models.UnderContract, int64, error)
	GetUnderContract(ctx context.Context, id uuid.UUID) (*models.UnderContract, error)
	DeleteUnderContract(ctx context.Context, id uuid.UUID) error
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

// Profile declares the contract orchestration: reference preresolution by
// name, assignments and utility billables afterwards.
func Profile(resolver *aspects.Resolver) orchestrator.Profile {
	return orchestrator.Profile{
		Kind:    enums.EntityTypeContract,
		Persist: persistContract,
		Reload:  reloadContract,
		Bindings: []orchestrator.Binding{
			{Key: "contract_info", List: true, Handler: resolver.HandleContractAssignment},
			{Key: "utilities", List: true, Handler: resolver.HandleBillable},
			{Key: "media", List: true, Handler: resolver.HandleMedia},
		},
	}
}

type contractFields struct {
	ContractID      *uuid.UUID      `json:"contract_id,omitempty"`
	ContractNumber  string          `json:"contract_number"`
	ContractType    string          `json:"contract_type" validate:"required"`
	PaymentType     string          `json:"payment_type" validate:"required"`
	ContractStatus  string          `json:"contract_status" validate:"required"`
	ContractDetails string          `json:"contract_details"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	FeePercentage   decimal.Decimal `json:"fee_percentage"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
	DateSigned      string          `json:"date_signed"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
}

var contractSchema = []string{
	"contract_id", "contract_number", "contract_type", "payment_type", "contract_status",
	"contract_details", "payment_amount", "fee_percentage", "fee_amount",
	"date_signed", "start_date", "end_date",
}

func persistContract(ctx context.Context, tx *gorm.DB, op orchestrator.Operation, doc orchestrator.Document, existingID *uuid.UUID) (uuid.UUID, error) {
	contracts := repo.New[models.Contract](tx, "contract_id")

	var fields contractFields
	if op == orchestrator.OpUpdate {
		existing, err := contracts.Get(ctx, *existingID, "ContractType", "PaymentType")
		if err != nil {
			return uuid.Nil, err
		}
		fields.ContractStatus = existing.ContractStatus.String()
		if existing.ContractType != nil {
			fields.ContractType = existing.ContractType.ContractTypeName
		}
		if existing.PaymentType != nil {
			fields.PaymentType = existing.PaymentType.PaymentTypeName
		}
	}

	if err := orchestrator.Decode(doc.Project(contractSchema), &fields); err != nil {
		return uuid.Nil, err
	}

	status, err := enums.ParseContractStatus(fields.ContractStatus)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "Contract status does not exist")
	}

	contractType, err := resolveContractType(ctx, tx, fields.ContractType)
	if err != nil {
		return uuid.Nil, err
	}
	paymentType, err := resolvePaymentType(ctx, tx, fields.PaymentType)
	if err != nil {
		return uuid.Nil, err
	}

	dateSigned, err := orchestrator.ParseDate(fields.DateSigned)
	if err != nil {
		return uuid.Nil, err
	}
	startDate, err := orchestrator.ParseDate(fields.StartDate)
	if err != nil {
		return uuid.Nil, err
	}
	endDate, err := orchestrator.ParseDate(fields.EndDate)
	if err != nil {
		return uuid.Nil, err
	}

	if op == orchestrator.OpUpdate {
		existing, err := contracts.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}
		updates := map[string]any{
			"contract_type_id": contractType.ContractTypeID,
			"payment_type_id":  paymentType.PaymentTypeID,
			"contract_status":  status,
			"contract_details": fields.ContractDetails,
			"payment_amount":   fields.PaymentAmount,
			"fee_percentage":   fields.FeePercentage,
			"fee_amount":       fields.FeeAmount,
		}
		if dateSigned != nil {
			updates["date_signed"] = dateSigned
		}
		if startDate != nil {
			updates["start_date"] = startDate
		}
		if endDate != nil {
			updates["end_date"] = endDate
		}
		if _, err := contracts.Update(ctx, existing, updates); err != nil {
			return uuid.Nil, err
		}
		return existing.ContractID, nil
	}

	contract := &models.Contract{
		ContractNumber:  fields.ContractNumber,
		ContractTypeID:  contractType.ContractTypeID,
		PaymentTypeID:   paymentType.PaymentTypeID,
		ContractStatus:  status,
		ContractDetails: fields.ContractDetails,
		PaymentAmount:   fields.PaymentAmount,
		FeePercentage:   fields.FeePercentage,
		FeeAmount:       fields.FeeAmount,
		DateSigned:      dateSigned,
		StartDate:       startDate,
		EndDate:         endDate,
	}
	if fields.ContractID != nil {
		contract.ContractID = *fields.ContractID
	}

	created, err := contracts.Create(ctx, contract)
	if err != nil {
		return uuid.Nil, err
	}
	return created.ContractID, nil
}

func resolveContractType(ctx context.Context, tx *gorm.DB, name string) (*models.ContractType, error) {
	contractTypes := repo.New[models.ContractType](tx, "contract_type_id")
	contractType, err := contractTypes.QueryOne(ctx, map[string]any{"contract_type_name": name})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "contract type %q does not exist", name)
		}
		return nil, err
	}
	return contractType, nil
}

func resolvePaymentType(ctx context.Context, tx *gorm.DB, name string) (*models.PaymentType, error) {
	paymentTypes := repo.New[models.PaymentType](tx, "payment_type_id")
	paymentType, err := paymentTypes.QueryOne(ctx, map[string]any{"payment_type_name": name})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "payment type %q does not exist", name)
		}
		return nil, err
	}
	return paymentType, nil
}

func reloadContract(ctx context.Context, tx *gorm.DB, id uuid.UUID) (any, error) {
	contracts := repo.New[models.Contract](tx, "contract_id")
	contract, err := contracts.Get(ctx, id, "ContractType", "PaymentType", "UnderContracts")
	if err != nil {
		return nil, err
	}
	return project(contract), nil
}

func project(contract *models.Contract) *Projection {
	projection := &Projection{Contract: *contract}
	if contract.ContractType != nil {
		projection.ContractTypeValue = contract.ContractType.ContractTypeName
	}
	if contract.PaymentType != nil {
		projection.PaymentTypeValue = contract.PaymentType.PaymentTypeName
	}
	return projection
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]Projection, int64, error) {
	contracts := repo.New[models.Contract](s.client.DB(), "contract_id")
	rows, total, err := contracts.GetAll(ctx, p, "ContractType", "PaymentType")
	if err != nil {
		return nil, 0, err
	}
	projections := make([]Projection, 0, len(rows))
	for i := range rows {
		projections = append(projections, *project(&rows[i]))
	}
	return projections, total, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*Projection, error) {
	contracts := repo.New[models.Contract](s.client.DB(), "contract_id")
	contract, err := contracts.Get(ctx, id, "ContractType", "PaymentType", "UnderContracts")
	if err != nil {
		return nil, err
	}
	return project(contract), nil
}

func (s *service) Create(ctx context.Context, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeContract, orchestrator.OpCreate, doc, nil)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeContract, orchestrator.OpUpdate, doc, &id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	contracts := repo.New[models.Contract](s.client.DB(), "contract_id")
	return contracts.Delete(ctx, id)
}

func (s *service) ListUnderContracts(ctx context.Context, p pagination.Params) ([]models.UnderContract, int64, error) {
	underContracts := repo.New[models.UnderContract](s.client.DB(), "under_contract_id")
	return underContracts.GetAll(ctx, p, "Client", "Employee")
}

func (s *service) GetUnderContract(ctx context.Context, id uuid.UUID) (*models.UnderContract, error) {
	underContracts := repo.New[models.UnderContract](s.client.DB(), "under_contract_id")
	return underContracts.Get(ctx, id, "Client", "Employee")
}

func (s *service) DeleteUnderContract(ctx context.Context, id uuid.UUID) error {
	underContracts := repo.New[models.UnderContract](s.client.DB(), "under_contract_id")
	return underContracts.Delete(ctx, id)
}
