package models

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/psytestlab/results-api/internal/types"
)

// MaxParameterValueLen matches the width of parameters.value.
const MaxParameterValueLen = 500

// PairSeparator splits the raw result_parameters string into pairs.
const PairSeparator = ";"

type TestResult struct {
	ProjectName string
	Name        string
	IP          string
	EndTime     time.Time
	Model
	Parameters []TestResultParameter `gorm:"foreignKey:ResultID"`
	Duration   int64
}

func (TestResult) TableName() string {
	return "results"
}

type TestResultParameter struct {
	Name  string
	Value string `gorm:"size:500"`
	Model
	ResultID int64
}

func (TestResultParameter) TableName() string {
	return "parameters"
}

// ParseParameters turns a raw "name: value; name: value" string into
// parameter rows. Pairs split on the FIRST colon, both sides are trimmed,
// empty segments are skipped.
func ParseParameters(raw string) ([]TestResultParameter, error) {
	var parameters []TestResultParameter

	for _, pair := range strings.Split(raw, PairSeparator) {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}

		name, value, found := strings.Cut(pair, ":")
		if !found {
			return nil, fmt.Errorf("parameter pair %q has no value", pair)
		}

		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			return nil, fmt.Errorf("parameter pair %q has no name", pair)
		}
		// the column width counts characters, not bytes
		if utf8.RuneCountInString(value) > MaxParameterValueLen {
			return nil, fmt.Errorf(
				"value for parameter %q exceeds %d characters",
				name,
				MaxParameterValueLen,
			)
		}

		parameters = append(parameters, TestResultParameter{Name: name, Value: value})
	}

	return parameters, nil
}

func (r *TestResult) ParameterNames() []string {
	names := make([]string, len(r.Parameters))
	for i, p := range r.Parameters {
		names[i] = p.Name
	}

	return names
}

func (r *TestResult) ParameterMap() map[string]string {
	m := make(map[string]string, len(r.Parameters))
	for _, p := range r.Parameters {
		m[p.Name] = p.Value
	}

	return m
}

func (r *TestResult) AsResponse() types.TestResult {
	return types.TestResult{
		ID:               r.ID,
		ProjectName:      r.ProjectName,
		Name:             r.Name,
		IP:               r.IP,
		EndTime:          r.EndTime,
		Duration:         types.FormatDuration(r.Duration),
		ResultParameters: r.ParameterMap(),
	}
}

// CreateResult persists a result together with its parameters in one
// transaction.
func CreateResult(ctx context.Context, db *gorm.DB, result *TestResult) error {
	ctx, span := tracer.Start(ctx, "CreateResult")
	defer span.End()

	db = db.WithContext(ctx)

	span.SetAttributes(
		attribute.String("project.name", result.ProjectName),
		attribute.Int("parameters", len(result.Parameters)),
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(result).Error
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert result")
		return fmt.Errorf("failed to insert result: %w", err)
	}

	span.SetAttributes(attribute.Int64("result.id", result.ID))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "inserted result")
	return nil
}

// ResultsByProject lists a project's results, most recent first, with
// parameters eagerly loaded.
func ResultsByProject(ctx context.Context, db *gorm.DB, project string) ([]TestResult, error) {
	ctx, span := tracer.Start(ctx, "ResultsByProject")
	defer span.End()

	db = db.WithContext(ctx)

	span.SetAttributes(attribute.String("project.name", project))

	var results []TestResult
	err := db.Preload("Parameters").
		Where("project_name = ?", project).
		Order("end_time DESC").
		Find(&results).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query results")
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	span.SetAttributes(attribute.Int("results", len(results)))
	return results, nil
}

// ResultsGrouped returns every stored result keyed by project name, each
// project's slice most recent first.
func ResultsGrouped(ctx context.Context, db *gorm.DB) (map[string][]TestResult, error) {
	ctx, span := tracer.Start(ctx, "ResultsGrouped")
	defer span.End()

	db = db.WithContext(ctx)

	var results []TestResult
	err := db.Preload("Parameters").
		Order("end_time DESC").
		Find(&results).Error
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to query results")
		return nil, fmt.Errorf("failed to query results: %w", err)
	}

	grouped := make(map[string][]TestResult)
	for _, result := range results {
		grouped[result.ProjectName] = append(grouped[result.ProjectName], result)
	}

	span.SetAttributes(attribute.Int("results", len(results)))
	return grouped, nil
}

// DeleteResults removes the identified results, parameters go with them via
// the cascade. Unknown ids are a no-op.
func DeleteResults(ctx context.Context, db *gorm.DB, ids []int64) error {
	ctx, span := tracer.Start(ctx, "DeleteResults")
	defer span.End()

	span.SetAttributes(attribute.Int("ids", len(ids)))

	if len(ids) == 0 {
		span.AddEvent("nothing to delete")
		return nil
	}

	db = db.WithContext(ctx)

	result := db.Delete(&TestResult{}, ids)
	if result.Error != nil {
		span.RecordError(result.Error)
		span.SetStatus(codes.Error, "failed to delete results")
		return fmt.Errorf("failed to delete results: %w", result.Error)
	}

	span.SetAttributes(attribute.Int64("rowsAffected", result.RowsAffected))
	span.RecordError(nil)
	span.SetStatus(codes.Ok, "deleted results")
	return nil
}
