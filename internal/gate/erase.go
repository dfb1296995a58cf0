package gate

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"privacygate/internal/events"
	proclogmodels "privacygate/internal/proclog/models"
	proclogservice "privacygate/internal/proclog/service"
	id "privacygate/pkg/domain"
	dErrors "privacygate/pkg/domain-errors"
	"privacygate/pkg/requestcontext"
)

// ErasureReport accounts for what a subject-erasure request removed.
type ErasureReport struct {
	VaultItems  int64
	ConsentRows int64
	LogEntries  int64
}

// EraseUser removes every trace of the subject: vault items, consent rows and
// processing-log entries, in that order, then writes one final erasure entry
// attributed to the operator who asked. A partial failure stops the routine
// so it can be retried; each delete is idempotent.
func (s *Service) EraseUser(ctx context.Context, subjectID id.UserID) (ErasureReport, error) {
	ctx, span := s.tracer.Start(ctx, "gate.EraseUser",
		trace.WithAttributes(attribute.String("subject_id", subjectID.String())))
	defer span.End()

	if subjectID.IsNil() {
		return ErasureReport{}, dErrors.New(dErrors.CodeBadRequest, "subject ID must not be empty")
	}

	var report ErasureReport
	var err error

	if report.VaultItems, err = s.vault.DeleteAllForUser(ctx, subjectID); err != nil {
		return report, dErrors.Wrap(err, dErrors.CodePersistence, "erase vault items")
	}
	if report.ConsentRows, err = s.consent.DeleteByUser(ctx, subjectID); err != nil {
		return report, dErrors.Wrap(err, dErrors.CodePersistence, "erase consent rows")
	}
	if report.LogEntries, err = s.proclog.DeleteByUser(ctx, subjectID); err != nil {
		return report, dErrors.Wrap(err, dErrors.CodePersistence, "erase processing-log entries")
	}

	// The erasure itself is a processing activity. It is attributed to the
	// operator performing it; the erased subject rides along as subject_id
	// so this entry survives the wipe of the subject's own rows.
	operator := requestcontext.UserID(ctx)
	if operator.IsNil() {
		operator = subjectID
	}
	s.proclog.LogActivity(ctx, proclogservice.ActivityParams{
		UserID:      operator,
		Action:      proclogmodels.ActionSubjectErasure,
		LawfulBasis: proclogmodels.BasisLegalObligation,
		SubjectID:   &subjectID,
		Metadata: map[string]any{
			"vault_items":  report.VaultItems,
			"consent_rows": report.ConsentRows,
			"log_entries":  report.LogEntries,
		},
	})

	s.logger.InfoContext(ctx, "subject erased",
		"subject_id", subjectID,
		"operator_id", operator,
		"vault_items", report.VaultItems,
		"consent_rows", report.ConsentRows,
		"log_entries", report.LogEntries,
	)
	if s.metrics != nil {
		s.metrics.IncrementUsersErased()
	}
	s.events.Emit(ctx, events.Event{
		UserID:    subjectID,
		Action:    events.ActionSubjectErased,
		RequestID: requestcontext.RequestID(ctx),
	})
	return report, nil
}
