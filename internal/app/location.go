package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"hotel_finder/internal/domain"
)

type LocationResolver struct {
	client domain.ProviderClient
}

func NewLocationResolver(c domain.ProviderClient) *LocationResolver {
	return &LocationResolver{client: c}
}

// Resolve maps a free-text place name to a provider location code.
// An empty code means nothing usable was found; lookup failures are logged and
// reported the same way. The error is non-nil only when ctx is done.
func (r *LocationResolver) Resolve(ctx context.Context, name, token string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil
	}
	recs, err := r.client.SearchLocations(ctx, token, name)
	if err != nil {
		if ctx.Err() != nil {
			return "", Classify(OpLocation, ctx.Err())
		}
		log.Warn().Err(Classify(OpLocation, err)).Str("destination", name).Msg("location lookup failed")
		return "", nil
	}

	cands := make([]domain.LocationCandidate, 0, len(recs))
	for _, rec := range recs {
		cands = append(cands, domain.LocationCandidate{
			Code: strings.TrimSpace(rec.IATACode),
			Name: rec.Name,
			Kind: domain.ParseLocationKind(rec.SubType),
		})
	}
	code := MatchLocation(name, cands)
	if code == "" {
		log.Info().Str("destination", name).Int("candidates", len(cands)).Msg("no usable location code")
	}
	return code, nil
}

// MatchLocation picks a code from candidates, first rule that matches wins:
// exact case-insensitive name, then first CITY, then first of any kind.
// Candidates without a code are never chosen.
func MatchLocation(name string, cands []domain.LocationCandidate) string {
	for _, c := range cands {
		if c.Code != "" && strings.EqualFold(strings.TrimSpace(c.Name), name) && c.Kind == domain.LocationCity {
			return c.Code
		}
	}
	for _, c := range cands {
		if c.Code != "" && strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c.Code
		}
	}
	for _, c := range cands {
		if c.Code != "" && c.Kind == domain.LocationCity {
			return c.Code
		}
	}
	for _, c := range cands {
		if c.Code != "" {
			return c.Code
		}
	}
	return ""
}
