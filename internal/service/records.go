package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/starford/digimark/internal/access"
	"github.com/starford/digimark/internal/aggregate"
	"github.com/starford/digimark/internal/apperr"
	"github.com/starford/digimark/internal/models"
	"github.com/starford/digimark/internal/schema"
)

// RecordInput is a record as submitted by the data-entry form. Empty fields
// take their defaults.
type RecordInput struct {
	ID        string           `json:"id"`
	Date      string           `json:"date"`
	Category  models.Category  `json:"category"`
	Channel   models.Channel   `json:"channel"`
	Objective models.Objective `json:"objective"`
	Metrics   models.Metrics   `json:"metrics"`
}

// ListRecords returns records matching term on channel or category, newest
// first. An empty term returns everything.
func (s *Service) ListRecords(ctx context.Context, term string) ([]models.MarketingRecord, error) {
	records, err := s.repos.Records.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.Search(records, term), nil
}

// GetRecord returns one record by id.
func (s *Service) GetRecord(ctx context.Context, id string) (models.MarketingRecord, error) {
	return s.repos.Records.Get(ctx, id)
}

// SaveRecord creates or replaces a record on behalf of actor.
//
// The category must be one the actor's role may create, and the channel must
// belong to the category. Metric keys outside the channel's fields are kept
// and logged.
func (s *Service) SaveRecord(ctx context.Context, actor models.User, in RecordInput) (models.MarketingRecord, error) {
	caps := access.CapabilitiesFor(actor.Role)

	rec := models.MarketingRecord{
		ID:        strings.TrimSpace(in.ID),
		Date:      strings.TrimSpace(in.Date),
		Category:  in.Category,
		Channel:   in.Channel,
		Objective: in.Objective,
		UserID:    actor.ID,
	}
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.Date == "" {
		rec.Date = s.now().Format(models.DateLayout)
	} else if d, ok := rec.Day(); ok {
		rec.Date = d.Format(models.DateLayout)
	}
	if rec.Objective == "" {
		rec.Objective = models.ObjectiveAwareness
	}
	if rec.Channel == "" && rec.Category == "" {
		rec.Category = caps.DefaultCategory()
		rec.Channel = caps.DefaultChannel()
	}
	if rec.Category == "" {
		if cat, ok := schema.CategoryOf(rec.Channel); ok {
			rec.Category = cat
		}
	}

	if err := rec.Validate(); err != nil {
		return models.MarketingRecord{}, invalid(err)
	}
	if !schema.Belongs(rec.Category, rec.Channel) {
		return models.MarketingRecord{}, fmt.Errorf("%w: channel %q is not in category %q",
			apperr.ErrValidation, rec.Channel, rec.Category)
	}
	if !caps.AllowsCategory(rec.Category) {
		return models.MarketingRecord{}, fmt.Errorf("role %q may not record %q: %w",
			actor.Role, rec.Category, apperr.ErrForbidden)
	}

	res := schema.Resolve(rec.Channel, in.Metrics)
	rec.Metrics = res.Metrics
	if len(res.Unknown) > 0 {
		s.logger.Warn("record has metrics outside channel schema",
			slog.String("id", rec.ID),
			slog.String("channel", string(rec.Channel)),
			slog.Any("fields", res.Unknown))
	}

	if err := s.repos.Records.Upsert(ctx, rec); err != nil {
		return models.MarketingRecord{}, err
	}
	s.changed(ctx, ChangeRecordSaved, rec.ID)
	return rec, nil
}

// DeleteRecord removes a record. Deleting an absent id is a no-op.
func (s *Service) DeleteRecord(ctx context.Context, id string) error {
	if err := s.repos.Records.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, ChangeRecordDeleted, id)
	return nil
}

// Dashboard aggregates every record matching f.
func (s *Service) Dashboard(ctx context.Context, f aggregate.Filter) (aggregate.Dashboard, error) {
	records, err := s.repos.Records.GetAll(ctx)
	if err != nil {
		return aggregate.Dashboard{}, err
	}
	d := aggregate.Build(records, f)
	d.Distribution = nonNilSlice(d.Distribution)
	d.Series = nonNilSlice(d.Series)
	return d, nil
}

// Export writes the CSV report of the records matching f.
func (s *Service) Export(ctx context.Context, w io.Writer, f aggregate.Filter) error {
	records, err := s.repos.Records.GetAll(ctx)
	if err != nil {
		return err
	}
	return aggregate.WriteCSV(w, aggregate.Apply(records, f))
}

// ExportFilename names an export produced now.
func (s *Service) ExportFilename() string {
	return aggregate.ExportFilename(s.now())
}
