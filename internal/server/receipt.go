package server

import (
	"net/http"
	"strings"

	"github.com/vestahome/designer-hub/internal/model"
	"github.com/vestahome/designer-hub/internal/receipt"
)

// handleSendReceipt emails the caller a receipt on demand. It answers 400
// when the submitter email or project id is missing, 403 when the email is
// not the caller's and 500 when no email went out.
func (s *Server) handleSendReceipt(w http.ResponseWriter, r *http.Request) {
	var req model.Receipt
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	to := strings.TrimSpace(req.SubmitterEmail)
	if to != "" && !strings.EqualFold(to, identityFrom(r.Context()).Email) {
		writeError(w, r, errNotCaller)
		return
	}
	if s.deps.Notifier == nil {
		writeError(w, r, receipt.ErrAllFailed)
		return
	}

	res, err := s.deps.Notifier.Notify(r.Context(), req)
	if err != nil {
		writeJSON(w, statusFor(err), map[string]string{"error": receiptError(err)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "sent": res.Sent()})
}

func receiptError(err error) string {
	if statusFor(err) == http.StatusBadRequest {
		return "Missing required fields"
	}
	return "Failed to send receipt"
}
