package main

import "regexp"

// Moderation thresholds, kept as-is from the hosted bot.
const (
	maxUserMentions = 6
	maxRoleMentions = 4
)

// Matches the two canonical invite-link forms.
var inviteLinkRe = regexp.MustCompile(`(?i)(discord\.gg/|discord\.com/invite/)`)

// ModVerdict says which check a message tripped, if any.
type ModVerdict int

const (
	ModPass ModVerdict = iota
	ModInviteLink
	ModMassMention
	ModRateLimited
)

// ModInput is the part of an inbound message the pipeline looks at.
type ModInput struct {
	GuildID         string
	UserID          string
	Content         string
	MentionEveryone bool
	MentionedUsers  []string
	MentionedRoles  []string
}

// ModerationPolicy runs the ordered, short-circuiting checks. The pattern
// and thresholds live here as data so tests can swap them.
type ModerationPolicy struct {
	inviteRe        *regexp.Regexp
	maxUserMentions int
	maxRoleMentions int
	limiter         *RateLimiter
}

func NewModerationPolicy(limiter *RateLimiter) *ModerationPolicy {
	return &ModerationPolicy{
		inviteRe:        inviteLinkRe,
		maxUserMentions: maxUserMentions,
		maxRoleMentions: maxRoleMentions,
		limiter:         limiter,
	}
}

// Review applies the checks in order: invite link, mass mention, rate limit.
// The rate limiter is only consulted when the earlier checks pass, so a
// blocked message still counts a single hit at most.
func (p *ModerationPolicy) Review(in ModInput) ModVerdict {
	if p.inviteRe.MatchString(in.Content) {
		return ModInviteLink
	}

	if in.MentionEveryone ||
		distinct(in.MentionedUsers) >= p.maxUserMentions ||
		distinct(in.MentionedRoles) >= p.maxRoleMentions {
		return ModMassMention
	}

	if p.limiter.Hit(in.GuildID, in.UserID) {
		return ModRateLimited
	}

	return ModPass
}

// Warning posted after a deleted message.
func warningFor(v ModVerdict) string {
	switch v {
	case ModInviteLink:
		return "🚫 Invite links are not allowed here."
	case ModMassMention:
		return "🚫 Mass mentions are blocked."
	case ModRateLimited:
		return "⚠️ Slow down (anti-spam)."
	default:
		return ""
	}
}

func distinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
