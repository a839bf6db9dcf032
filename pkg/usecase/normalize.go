package usecase

import (
	"strings"

	"github.com/secmon-lab/rolodex/pkg/domain/model"
	"github.com/secmon-lab/rolodex/pkg/domain/types"
)

// DefaultIgnoreKey is the title value members set to opt out of the
// export.
const DefaultIgnoreKey = "#ignore"

type normalizeConfig struct {
	includeBots bool
	ignoreKey   string
}

// NormalizeOption is a functional option for Normalize
type NormalizeOption func(*normalizeConfig)

// WithBots keeps bot accounts in the output
func WithBots() NormalizeOption {
	return func(cfg *normalizeConfig) {
		cfg.includeBots = true
	}
}

// WithIgnoreKey overrides the opt-out title sentinel
func WithIgnoreKey(key string) NormalizeOption {
	return func(cfg *normalizeConfig) {
		cfg.ignoreKey = key
	}
}

// Normalize flattens the raw directory snapshot into member records.
// Filter precedence is fixed: bots are dropped before flattening, the
// opt-out and completeness filters run after whitespace trimming.
// Members with missing optional fields are kept with those fields
// absent; a member with a broken or empty profile simply falls out at
// the real-name filter instead of failing the run. The result keeps
// the relative order of the input.
func Normalize(snapshot *model.Snapshot, opts ...NormalizeOption) []*model.Member {
	cfg := normalizeConfig{
		ignoreKey: DefaultIgnoreKey,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	members := make([]*model.Member, 0, len(snapshot.Members))
	for i := range snapshot.Members {
		raw := &snapshot.Members[i]

		if raw.Bot() && !cfg.includeBots {
			continue
		}

		m := flatten(raw)
		if m.Title == cfg.ignoreKey {
			continue
		}
		if m.RealName == "" {
			continue
		}

		members = append(members, m)
	}

	return members
}

// flatten lifts the nested profile attributes into the flat member
// field set, trimming every textual field. Empty after trim means
// absent.
func flatten(raw *model.RawMember) *model.Member {
	return &model.Member{
		FirstName:     strings.TrimSpace(raw.Profile.FirstName),
		LastName:      strings.TrimSpace(raw.Profile.LastName),
		RealName:      strings.TrimSpace(raw.Profile.RealNameNormalized),
		Email:         strings.TrimSpace(raw.Profile.Email),
		Skype:         strings.TrimSpace(raw.Profile.Skype),
		Phone:         strings.TrimSpace(raw.Profile.Phone),
		Title:         strings.TrimSpace(raw.Profile.Title),
		Image1024:     strings.TrimSpace(raw.Profile.Image1024),
		Image512:      strings.TrimSpace(raw.Profile.Image512),
		Image192:      strings.TrimSpace(raw.Profile.Image192),
		IsCustomImage: raw.Profile.IsCustomImage,
		DisplayName:   strings.TrimSpace(raw.Profile.DisplayNameNormalized),
		Timezone:      strings.TrimSpace(raw.TZ),
		ID:            types.MemberID(strings.TrimSpace(raw.ID)),
		Deleted:       raw.Deleted,
		Updated:       raw.Updated,
		BotID:         strings.TrimSpace(raw.Profile.BotID),
	}
}
