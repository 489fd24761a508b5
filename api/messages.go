package api

import (
	"net/http"
	"strings"

	"github.com/evilsocket/islazy/log"

	"github.com/namepage/namepage/messages"
)

const (
	MessageVerified   = "Message sent and verified successfully!"
	MessageUnverified = "Message sent but signature verification failed"
)

func submissionStatus(err error) int {
	switch err {
	case messages.ErrMissingFields, messages.ErrFieldTooLong, messages.ErrStaleTimestamp:
		return http.StatusBadRequest
	case messages.ErrRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func (api *API) GetMessages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	target := query.Get("target")
	if target == "" {
		target = query.Get("domain")
	}

	if strings.TrimSpace(target) == "" {
		ERROR(w, http.StatusBadRequest, messages.ErrMissingFields)
		return
	}

	list, err := api.Messages.List(target)
	if err != nil {
		log.Error("error listing messages of %s: %v", target, err)
		ERROR(w, http.StatusInternalServerError, ErrInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"messages": list,
		"total":    len(list),
	})
}

func (api *API) PostMessage(w http.ResponseWriter, r *http.Request) {
	var sub messages.Submission
	if err := readJSON(w, r, &sub); err != nil {
		return
	}

	receipt, err := api.Messages.Submit(sub)
	if err != nil {
		status := submissionStatus(err)
		if status == http.StatusInternalServerError {
			log.Error("error storing message from %s: %v", clientIP(r), err)
			err = ErrInternal
		} else {
			log.Debug("message from %s (%s) rejected: %v", sub.Sender, clientIP(r), err)
		}
		ERROR(w, status, err)
		return
	}

	text := MessageUnverified
	if receipt.Verified {
		text = MessageVerified
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"verified":  receipt.Verified,
		"messageId": receipt.ID,
		"message":   text,
	})
}
