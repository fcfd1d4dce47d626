package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"github.com/Geniuskaa/hackathon_registration/internal/registration"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"io"
	"net/http"
	"strconv"
	"strings"
)

const MAX_BODY_BYTES = 64 << 10

type Handler struct {
	serv   *Service
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger, serv *Service) *Handler {
	return &Handler{serv: serv, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.health)
	r.Post("/sheets", h.appendRows)
}

type appendResponse struct {
	OK           bool   `json:"ok"`
	Appended     int    `json:"appended"`
	SubmissionID string `json:"submissionId"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) appendRows(w http.ResponseWriter, r *http.Request) {
	payload, err := decodePayload(http.MaxBytesReader(w, r.Body, MAX_BODY_BYTES))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrInvalidPayload)
		return
	}

	ctx, span := otel.Tracer(tracerName).Start(r.Context(), "POST /sheets",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()

	receipt, err := h.serv.AppendRegistration(ctx, payload)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidPayload):
		writeError(w, http.StatusBadRequest, err)
		return
	case errors.Is(err, ErrNotConfigured):
		writeError(w, http.StatusInternalServerError, ErrNotConfigured)
		return
	default:
		h.logger.Error("/sheets error",
			zap.String("request_id", middleware.GetReqID(ctx)),
			zap.Stringer("trace_id", trace.SpanContextFromContext(ctx).TraceID()),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, appendResponse{
		OK:           true,
		Appended:     receipt.Appended,
		SubmissionID: receipt.SubmissionID,
	})
}

// decodePayload only insists on a participants array. Elements are read
// leniently: numbers and strings are accepted for every field and anything
// unusable becomes an empty cell. Field level checks belong to the wizard.
func decodePayload(body io.Reader) (registration.Payload, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return registration.Payload{}, err
	}

	list := bytes.TrimSpace(raw["participants"])
	if len(list) == 0 || list[0] != '[' {
		return registration.Payload{}, ErrInvalidPayload
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(list, &elems); err != nil {
		return registration.Payload{}, err
	}

	p := registration.Payload{
		TeamID:        looseString(raw["teamId"]),
		PaymentStatus: looseString(raw["paymentStatus"]),
		Participants:  make([]registration.Participant, 0, len(elems)),
	}
	for _, e := range elems {
		p.Participants = append(p.Participants, looseParticipant(e))
	}
	return p, nil
}

// looseParticipant never fails: a non-object element yields an empty
// participant, which still produces a row.
func looseParticipant(data json.RawMessage) registration.Participant {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return registration.Participant{}
	}

	return registration.Participant{
		FullName:       looseString(fields["fullName"]),
		Age:            looseInt(fields["age"]),
		Gender:         registration.Gender(looseString(fields["gender"])),
		PrimaryPhone:   looseString(fields["primaryPhone"]),
		SecondaryPhone: looseString(fields["secondaryPhone"]),
	}
}

func looseValue(data json.RawMessage) interface{} {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

func looseString(data json.RawMessage) string {
	switch v := looseValue(data).(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// looseInt truncates fractional ages, zero means missing.
func looseInt(data json.RawMessage) int {
	s := strings.TrimSpace(looseString(data))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: outcome(err)})
}
