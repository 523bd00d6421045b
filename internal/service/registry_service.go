package service

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/spec-kit/safety-roster/internal/config"
	"github.com/spec-kit/safety-roster/internal/domain"
	"github.com/spec-kit/safety-roster/internal/events"
	"github.com/spec-kit/safety-roster/internal/identifier"
	"github.com/spec-kit/safety-roster/internal/repository"
	apperrors "github.com/spec-kit/safety-roster/pkg/util"
)

const defaultFetchConcurrency = 8

// RegistryService owns staff records and the roster built from them.
type RegistryService struct {
	staff       repository.StaffRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	validate    *validator.Validate
	departments []string
	timeout     time.Duration
	fanOut      int
	now         func() time.Time
}

// RegistryDependencies encapsulates collaborators required by the registry.
type RegistryDependencies struct {
	StaffRepo  repository.StaffRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// EditDraft is the record offered for editing; Found is false for a blank template.
type EditDraft struct {
	Record domain.StaffRecord
	Found  bool
}

// SaveAck acknowledges a completed write.
type SaveAck struct {
	Record domain.StaffRecord
}

type saveInput struct {
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required,department"`
	Status     string `json:"status" validate:"required,oneof=safe minor_injury serious_injury"`
	Reportable string `json:"reportable" validate:"omitempty,oneof=immediately within_hours next_day_or_later unable"`
}

// NewRegistryService constructs the service.
func NewRegistryService(cfg config.Config, deps RegistryDependencies) *RegistryService {
	departments := cfg.Roster.Departments
	if len(departments) == 0 {
		departments = domain.DefaultDepartments
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	fanOut := cfg.Store.FetchConcurrency
	if fanOut <= 0 {
		fanOut = defaultFetchConcurrency
	}

	s := &RegistryService{
		staff:       deps.StaffRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		departments: departments,
		timeout:     cfg.Store.Timeout(),
		fanOut:      fanOut,
		now:         clock,
	}
	s.validate = newSaveValidator(departments)
	return s
}

func newSaveValidator(departments []string) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	_ = v.RegisterValidation("department", func(fl validator.FieldLevel) bool {
		return lo.Contains(departments, fl.Field().String())
	})
	return v
}

func (s *RegistryService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// FetchForEdit returns the stored record for rawID, or an empty template when
// nothing usable is stored. Read failures are absorbed; only an invalid id errors.
func (s *RegistryService) FetchForEdit(ctx context.Context, rawID string) (*EditDraft, error) {
	id, err := identifier.Normalize(rawID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rec, err := s.staff.Get(ctx, id)
	switch {
	case err == nil:
		rec.ID = id
		return &EditDraft{Record: *rec, Found: true}, nil
	case errors.Is(err, repository.ErrNotFound):
	case errors.Is(err, repository.ErrMalformedRecord):
		s.logger.Warn("stored staff record unreadable; offering blank form", zap.String("staff_id", id), zap.Error(err))
	default:
		s.logger.Warn("staff record read failed; offering blank form", zap.String("staff_id", id), zap.Error(err))
	}
	return &EditDraft{Record: domain.StaffRecord{ID: id}}, nil
}

// Save validates fields and replaces the record stored for id. id must already
// be canonical. A failed write is always returned as a storage error.
func (s *RegistryService) Save(ctx context.Context, id string, fields domain.StaffFields) (*SaveAck, error) {
	if !identifier.Valid(id) {
		return nil, apperrors.NewInvalidIdentifier(id)
	}
	if err := s.validateFields(fields); err != nil {
		return nil, err
	}

	rec := domain.NewStaffRecord(id, fields, s.now().UTC())

	writeCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.staff.Put(writeCtx, rec); err != nil {
		s.logger.Error("staff record write failed", zap.String("staff_id", id), zap.Error(err))
		return nil, apperrors.NewStorageError("write", err)
	}

	s.logger.Info("staff status saved",
		zap.String("staff_id", id),
		zap.String("department", rec.Department),
		zap.String("status", string(rec.Status)))
	s.publishReported(ctx, rec)

	return &SaveAck{Record: rec}, nil
}

func (s *RegistryService) validateFields(fields domain.StaffFields) error {
	in := saveInput{
		Name:       fields.Name,
		Department: fields.Department,
		Status:     string(fields.Status),
		Reportable: string(fields.Reportable),
	}
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	details := make(map[string]any)
	var validateErrs validator.ValidationErrors
	if errors.As(err, &validateErrs) {
		for _, fe := range validateErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError("staff record is incomplete or invalid", details)
}

func (s *RegistryService) publishReported(ctx context.Context, rec domain.StaffRecord) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventStaffStatusReported,
		StaffID:   rec.ID,
		Timestamp: rec.UpdatedAt,
		Payload: events.StaffStatusReportedPayload{
			Name:       rec.Name,
			Department: rec.Department,
			Status:     rec.Status,
			Reportable: rec.Reportable,
			Location:   rec.Location,
		},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("status report handlers failed", zap.String("staff_id", rec.ID), zap.Error(err))
	}
}

// ListAll returns every decodable record. Unreadable entries are dropped and
// a failed listing yields an empty roster. Callers must not rely on ordering.
func (s *RegistryService) ListAll(ctx context.Context) []domain.StaffRecord {
	records, _ := s.load(ctx)
	return records
}

// Aggregate counts records per stored status.
func (s *RegistryService) Aggregate(records []domain.StaffRecord) domain.StatusCounts {
	return domain.Aggregate(records)
}

// Roster lists and aggregates in one call, reporting how many entries were skipped.
func (s *RegistryService) Roster(ctx context.Context) domain.RosterView {
	records, report := s.load(ctx)
	return domain.RosterView{
		Records: records,
		Counts:  domain.Aggregate(records),
		Report:  report,
	}
}

// Options returns the enumerations the input form offers.
func (s *RegistryService) Options() domain.FormOptions {
	return domain.FormOptions{
		Departments: append([]string(nil), s.departments...),
		Statuses: lo.Map(domain.SelectableStatuses, func(st domain.SafetyStatus, _ int) domain.StatusOption {
			return domain.StatusOption{Value: st, Label: st.Label()}
		}),
		Reportable: lo.Map(domain.ReportAvailabilities, func(r domain.ReportAvailability, _ int) domain.ReportOption {
			return domain.ReportOption{Value: r, Label: r.Label()}
		}),
	}
}

func (s *RegistryService) load(ctx context.Context) ([]domain.StaffRecord, domain.LoadReport) {
	listCtx, cancel := s.withTimeout(ctx)
	keys, err := s.staff.Keys(listCtx)
	cancel()
	if err != nil {
		s.logger.Warn("roster listing failed; serving empty roster", zap.Error(err))
		return []domain.StaffRecord{}, domain.LoadReport{Degraded: true}
	}

	p := pool.NewWithResults[*domain.StaffRecord]().WithMaxGoroutines(s.fanOut)
	for _, key := range keys {
		key := key
		p.Go(func() *domain.StaffRecord {
			// The key is authoritative for the id, as in FetchForEdit.
			id := repository.IDFromKey(key)
			if !identifier.Valid(id) {
				s.logger.Warn("skipping staff key with invalid id", zap.String("key", key))
				return nil
			}
			fetchCtx, cancel := s.withTimeout(ctx)
			defer cancel()
			rec, err := s.staff.GetByKey(fetchCtx, key)
			if err != nil {
				if !errors.Is(err, repository.ErrNotFound) {
					s.logger.Warn("skipping staff record", zap.String("key", key), zap.Error(err))
				}
				return nil
			}
			rec.ID = id
			return rec
		})
	}

	records := make([]domain.StaffRecord, 0, len(keys))
	for _, rec := range p.Wait() {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].ID, records[j].ID
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})

	return records, domain.LoadReport{
		Listed:  len(keys),
		Loaded:  len(records),
		Skipped: len(keys) - len(records),
	}
}
