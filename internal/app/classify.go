package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"

	"hotel_finder/internal/domain"
)

// Op names the provider call a failure came from; the same raw failure maps
// to different kinds depending on it.
type Op string

const (
	OpToken    Op = "token"
	OpLocation Op = "location"
	OpSearch   Op = "search"
)

// Classify turns a raw transport, status or decode failure into a *domain.Error.
// Values that are already classified pass through untouched.
func Classify(op Op, err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}

	var perr *domain.ProviderError
	if errors.As(err, &perr) {
		return classifyStatus(op, perr)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.NetworkError("the travel provider did not respond in time", err)
	case errors.Is(err, context.Canceled):
		return domain.NetworkError("the request was cancelled", err)
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return domain.NetworkError("the travel provider did not respond in time", err)
	}

	var (
		syn *json.SyntaxError
		typ *json.UnmarshalTypeError
	)
	if errors.As(err, &syn) || errors.As(err, &typ) || errors.Is(err, io.ErrUnexpectedEOF) {
		if op == OpToken {
			return domain.AuthError("the provider returned a malformed token response", err)
		}
		return domain.SearchError("the travel provider returned a malformed response", "", err)
	}

	return domain.NetworkError("could not reach the travel provider", err)
}

func classifyStatus(op Op, perr *domain.ProviderError) error {
	code, title := "", ""
	if len(perr.Issues) > 0 {
		title = perr.Issues[0].Title
		if perr.Issues[0].Code != 0 {
			code = strconv.Itoa(perr.Issues[0].Code)
		}
	}

	if op == OpToken {
		msg := "the travel provider rejected the configured API credentials"
		if perr.StatusCode >= 500 {
			msg = fmt.Sprintf("the travel provider's authentication service is unavailable (status %d)", perr.StatusCode)
		}
		return &domain.Error{Kind: domain.KindAuth, Message: msg, ProviderCode: code, Err: perr}
	}

	var msg string
	switch {
	case title != "" && code != "":
		msg = fmt.Sprintf("hotel search failed: %s (code %s)", title, code)
	case title != "":
		msg = "hotel search failed: " + title
	case perr.StatusCode >= 500:
		msg = fmt.Sprintf("the hotel provider is temporarily unavailable (status %d)", perr.StatusCode)
	case perr.StatusCode == 429:
		msg = "too many searches right now, please try again shortly"
	default:
		msg = fmt.Sprintf("the hotel provider rejected the search (status %d)", perr.StatusCode)
	}
	if len(perr.Issues) > 0 && perr.Issues[0].Detail != "" {
		msg += ": " + perr.Issues[0].Detail
	}
	if code == "" {
		code = title
	}
	return domain.SearchError(msg, code, perr)
}
