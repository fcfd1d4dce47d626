package relay

import (
	"context"
	"errors"
	"fmt"
	"github.com/Geniuskaa/hackathon_registration/internal/registration"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"time"
)

const (
	TIMESTAMP_LAYOUT = "2006-01-02T15:04:05.000Z07:00"

	tracerName = "github.com/Geniuskaa/hackathon_registration/internal/relay"
)

var (
	ErrInvalidPayload = errors.New("Invalid payload. Expected { participants: [...] }")
	ErrNotConfigured  = errors.New("Server not configured with spreadsheet credentials")
)

// Sink is the append-only destination for registration rows. Ready is the
// configuration guard and must not touch the network.
type Sink interface {
	Ready() error
	Append(ctx context.Context, submissionID string, rows [][]interface{}) (int, error)
}

type Receipt struct {
	SubmissionID string
	Appended     int
}

// Service keeps no state between calls: every request is an independent
// insert and retries produce duplicate rows.
type Service struct {
	sink    Sink
	logger  *zap.Logger
	metrics *Metrics
	now     func() time.Time
	newID   func() string
}

func NewService(sink Sink, logger *zap.Logger, metrics *Metrics) *Service {
	return &Service{
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Service) AppendRegistration(ctx context.Context, p registration.Payload) (Receipt, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "relay.AppendRegistration")
	defer span.End()

	start := s.now()
	receipt, err := s.appendRegistration(ctx, p)
	s.metrics.observe(err, receipt.Appended, s.now().Sub(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return receipt, err
	}

	span.SetAttributes(
		attribute.String("submission.id", receipt.SubmissionID),
		attribute.Int("rows.appended", receipt.Appended),
	)
	return receipt, nil
}

func (s *Service) appendRegistration(ctx context.Context, p registration.Payload) (Receipt, error) {
	if len(p.Participants) == 0 {
		return Receipt{}, ErrInvalidPayload
	}

	if err := s.sink.Ready(); err != nil {
		s.logger.Error("relay is not configured", zap.Error(err))
		return Receipt{}, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	receipt := Receipt{SubmissionID: s.newID()}
	rows := BuildRows(p, s.now())

	n, err := s.sink.Append(ctx, receipt.SubmissionID, rows)
	if err != nil {
		s.logger.Error("appending registration failed",
			zap.String("submission_id", receipt.SubmissionID),
			zap.String("team_id", p.TeamID),
			zap.Error(err))
		return receipt, fmt.Errorf("AppendRegistration failed: %w", err)
	}
	receipt.Appended = n

	s.logger.Info("registration appended",
		zap.String("submission_id", receipt.SubmissionID),
		zap.String("team_id", p.TeamID),
		zap.Int("team_size", len(p.Participants)),
		zap.Int("rows", n))

	return receipt, nil
}

// BuildRows emits one row per participant:
// timestamp, team size, position, role, name, age, gender, primary phone,
// secondary phone, team id, payment status.
func BuildRows(p registration.Payload, at time.Time) [][]interface{} {
	timestamp := at.UTC().Format(TIMESTAMP_LAYOUT)
	teamSize := len(p.Participants)

	rows := make([][]interface{}, 0, teamSize)
	for i, participant := range p.Participants {
		var age interface{} = ""
		if participant.Age != 0 {
			age = participant.Age
		}

		rows = append(rows, []interface{}{
			timestamp,
			teamSize,
			i + 1,
			registration.RoleFor(i),
			participant.FullName,
			age,
			string(participant.Gender),
			participant.PrimaryPhone,
			participant.SecondaryPhone,
			p.TeamID,
			p.PaymentStatus,
		})
	}

	return rows
}
