package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/huseyinTozluyurt/boardgame-client/go/clients"
)

// Outcome is the single disposition assigned to every failure that reaches
// the engine. Each failed poll cycle or user action resolves to exactly one.
type Outcome int

const (
	// OutcomeIgnore: the request was canceled; no effect, no error count.
	OutcomeIgnore Outcome = iota
	// OutcomeRetry: transient network or server trouble; counts toward the
	// backoff streak and shows the self-healing connection banner.
	OutcomeRetry
	// OutcomeConflict: the server refused the action (usually: not your
	// turn); message only, no navigation.
	OutcomeConflict
	// OutcomeRoomList: the room is gone for us (403/404/desync); abandon
	// room state and navigate to the room list.
	OutcomeRoomList
	// OutcomeSignIn: the session itself is gone (401); clear it and
	// navigate to sign-in.
	OutcomeSignIn
)

// Classify maps a failure to its outcome per the error taxonomy:
// cancellation is swallowed, 401 forces sign-in, 403/404 and desync force
// the room list, 409 is a conflict message, everything else retries.
func Classify(err error) Outcome {
	if err == nil || clients.IsCanceled(err) {
		return OutcomeIgnore
	}

	var desync *DesyncError
	if errors.As(err, &desync) {
		return OutcomeRoomList
	}

	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized:
			return OutcomeSignIn
		case http.StatusForbidden, http.StatusNotFound:
			return OutcomeRoomList
		case http.StatusConflict:
			return OutcomeConflict
		}
	}

	return OutcomeRetry
}

// outcomeRank orders outcomes by severity so a cycle with two failures
// resolves to exactly one disposition. Navigation outcomes win over
// retryable ones; cancellations never win over anything.
func outcomeRank(o Outcome) int {
	switch o {
	case OutcomeSignIn:
		return 4
	case OutcomeRoomList:
		return 3
	case OutcomeConflict:
		return 2
	case OutcomeRetry:
		return 1
	default:
		return 0
	}
}

// cycleError picks the error that drives a cycle's outcome when both the
// state and the chat leg failed. Returns nil when every failure was a
// cancellation.
func cycleError(errs ...error) error {
	var best error
	bestRank := 0
	for _, err := range errs {
		if err == nil {
			continue
		}
		if r := outcomeRank(Classify(err)); r > bestRank {
			best, bestRank = err, r
		}
	}
	return best
}

// StatusMessage is the user-facing text for a failed request.
func StatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Request invalid (400)."
	case http.StatusUnauthorized:
		return "Please sign in again (401)."
	case http.StatusForbidden:
		return "You are not allowed in this room (403)."
	case http.StatusNotFound:
		return "Room not found (404)."
	case http.StatusConflict:
		return "Conflict (409). Usually: not your turn."
	default:
		return fmt.Sprintf("Request failed (%d).", status)
	}
}

// FailureMessage builds the transient banner text for a failed action.
func FailureMessage(err error) string {
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) {
		return strings.TrimSpace(StatusMessage(apiErr.Status) + " " + apiErr.Body)
	}
	return "Network error. Please try again."
}
