package public

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/sngm3741/workshop-feedback/api/internal/apperr"
	feedbackapp "github.com/sngm3741/workshop-feedback/api/internal/feedback/application"
	"github.com/sngm3741/workshop-feedback/api/internal/feedback/domain"
	"github.com/sngm3741/workshop-feedback/api/internal/interfaces/http/common"
)

type sendFeedbackRequest struct {
	Name    string          `json:"name"`
	Vehicle string          `json:"vehicle"`
	Phone   string          `json:"phone"`
	Answers json.RawMessage `json:"answers"`
}

func (req sendFeedbackRequest) toInput() (domain.SubmissionInput, error) {
	answers, err := decodeAnswers(req.Answers)
	if err != nil {
		return domain.SubmissionInput{}, err
	}
	return domain.SubmissionInput{
		Name:    req.Name,
		Vehicle: req.Vehicle,
		Phone:   req.Phone,
		Answers: answers,
	}, nil
}

// decodeAnswers accepts any present answers value. Array elements are kept in
// order: strings as is, null as an empty answer and other values as their JSON
// text. A non-empty scalar counts as a single answer. A non-empty object has
// no positions, so it yields one blank answer per question. Empty strings,
// arrays and objects count as missing.
func decodeAnswers(raw json.RawMessage) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, apperr.Validation(fmt.Sprintf("Invalid answers: %v", err))
		}
		answers := make([]string, 0, len(items))
		for _, item := range items {
			answers = append(answers, answerText(item))
		}
		return answers, nil
	case '{':
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, apperr.Validation(fmt.Sprintf("Invalid answers: %v", err))
		}
		if len(keyed) == 0 {
			return nil, nil
		}
		return make([]string, len(domain.Questions)), nil
	default:
		if text := answerText(trimmed); text != "" {
			return []string{text}, nil
		}
		return nil, nil
	}
}

func answerText(item json.RawMessage) string {
	item = bytes.TrimSpace(item)
	if bytes.Equal(item, []byte("null")) {
		return ""
	}
	var text string
	if err := json.Unmarshal(item, &text); err == nil {
		return text
	}
	var number json.Number
	if err := json.Unmarshal(item, &number); err == nil {
		return number.String()
	}
	var flag bool
	if err := json.Unmarshal(item, &flag); err == nil {
		return strconv.FormatBool(flag)
	}
	return string(item)
}

func (h *Handler) sendFeedbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()

		var req sendFeedbackRequest
		decoder := json.NewDecoder(io.LimitReader(r.Body, common.MaxFeedbackRequestBody))
		if err := decoder.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.responder.Write(w, r, apperr.Validation(fmt.Sprintf("Invalid request body: %v", err)))
			return
		}

		input, err := req.toInput()
		if err != nil {
			h.responder.Write(w, r, err)
			return
		}

		// The pipeline runs to completion even if the client goes away.
		ctx := context.WithoutCancel(r.Context())
		if _, err := h.feedback.Submit(ctx, input); err != nil {
			h.responder.Write(w, r, err)
			return
		}

		common.WriteSuccess(h.logger, w, feedbackapp.SuccessMessage)
	}
}
