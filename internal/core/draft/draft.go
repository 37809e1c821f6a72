// Package draft turns one ranked contact plus need context into channel
// specific outreach drafts with hard length ceilings
package draft

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"warmintro/internal/core/extract"
	"warmintro/internal/core/rank"
	pstrings "warmintro/internal/platform/strings"
)

// Channel enumerates outreach channels
type Channel string

// Channels
const (
	ChannelLinkedInDM Channel = "linkedin_dm"
	ChannelEmail      Channel = "email"
	ChannelWarmIntro  Channel = "warm_intro"
)

// rune ceilings per channel
const (
	CapLinkedInDM = 300
	CapEmail      = 2000
	CapWarmIntro  = 1200
)

// Ceiling returns the rune cap for a channel, 0 for unknown channels
func Ceiling(ch Channel) int {
	switch ch {
	case ChannelLinkedInDM:
		return CapLinkedInDM
	case ChannelEmail:
		return CapEmail
	case ChannelWarmIntro:
		return CapWarmIntro
	default:
		return 0
	}
}

// MessageDraft is one channel-specific outreach message.
// CharCount always equals utf8.RuneCountInString(Body)
type MessageDraft struct {
	Channel   Channel `json:"channel"`
	Subject   string  `json:"subject,omitempty"`
	Body      string  `json:"body"`
	Tone      string  `json:"tone"`
	CharCount int     `json:"char_count"`
}

// Compose builds one draft per channel for contact, parameterized by first
// name, title, company, and up to two matched expertise tags. Pure function
func Compose(contact rank.Contact, needCtx extract.NeedDescriptor, matchedExpertise []string) []MessageDraft {
	first := pstrings.FirstName(contact.Name)
	if first == "" {
		first = "there"
	}
	topic := topicLine(needCtx, matchedExpertise)
	ask := askLine(needCtx.Objective)

	return []MessageDraft{
		composeDM(first, contact, topic, ask),
		composeEmail(first, contact, needCtx, topic, ask, matchedExpertise),
		composeWarmIntro(first, contact, needCtx, topic, ask),
	}
}

func composeDM(first string, c rank.Contact, topic, ask string) MessageDraft {
	greeting := fmt.Sprintf("Hi %s!", first)
	cta := fmt.Sprintf("Given your background in %s, would you be open to a quick chat? %s", topic, ask)

	context := ""
	if c.Company != "" {
		context = fmt.Sprintf(" Loved what %s has been doing.", c.Company)
	}

	body := assemble(greeting, cta, context, CapLinkedInDM)
	return finish(MessageDraft{Channel: ChannelLinkedInDM, Body: body, Tone: "casual"})
}

func composeEmail(first string, c rank.Contact, need extract.NeedDescriptor, topic, ask string, matched []string) MessageDraft {
	subject := fmt.Sprintf("Quick question about %s", topic)

	greeting := fmt.Sprintf("Hi %s,", first)
	cta := fmt.Sprintf(
		"I'm reaching out because of your experience in %s. %s Would you have 15 minutes in the next couple of weeks?",
		topic, ask,
	)

	var ctx strings.Builder
	if c.Title != "" && c.Company != "" {
		fmt.Fprintf(&ctx, "\n\nYour work as %s at %s stood out to me", c.Title, c.Company)
		if len(matched) > 0 {
			fmt.Fprintf(&ctx, ", especially around %s", strings.Join(capTwo(matched), " and "))
		}
		ctx.WriteString(".")
	}
	if need.RawInput != "" {
		fmt.Fprintf(&ctx, "\n\nFor context, here's what prompted this: %q", need.RawInput)
	}
	ctx.WriteString("\n\nThanks,\n")

	body := assemble(greeting+"\n\n", cta, ctx.String(), CapEmail)
	return finish(MessageDraft{Channel: ChannelEmail, Subject: subject, Body: body, Tone: "professional"})
}

func composeWarmIntro(first string, c rank.Contact, need extract.NeedDescriptor, topic, ask string) MessageDraft {
	greeting := "Hey! Hope you're well."
	cta := fmt.Sprintf(
		" I'm looking to get connected with %s%s around %s. %s Could you make an intro if you think it's a fit?",
		first, atCompany(c), topic, ask,
	)

	context := ""
	if need.RawInput != "" {
		context = fmt.Sprintf(" Background: %q", need.RawInput)
	}

	body := assemble(greeting, cta, context, CapWarmIntro)
	return finish(MessageDraft{Channel: ChannelWarmIntro, Body: body, Tone: "friendly"})
}

// assemble joins greeting+cta (always kept whole) with trailing context,
// truncating only the context to fit the rune cap
func assemble(greeting, cta, context string, limit int) string {
	core := greeting + cta
	coreLen := utf8.RuneCountInString(core)
	if coreLen >= limit {
		// degenerate limit; keep the core's leading runes so greeting survives first
		return truncRunes(core, limit)
	}
	return core + truncRunes(context, limit-coreLen)
}

func truncRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

func finish(d MessageDraft) MessageDraft {
	d.CharCount = utf8.RuneCountInString(d.Body)
	return d
}

func topicLine(need extract.NeedDescriptor, matched []string) string {
	pick := capTwo(matched)
	if len(pick) == 0 {
		pick = capTwo(need.KeywordsMust)
	}
	if len(pick) == 0 {
		return "your space"
	}
	return strings.Join(pick, " and ")
}

func capTwo(in []string) []string {
	if len(in) > 2 {
		return in[:2]
	}
	return in
}

func askLine(o extract.Objective) string {
	switch o {
	case extract.ObjectiveRaise:
		return "I'm raising and would value your perspective."
	case extract.ObjectiveHire:
		return "I'm building out the team and would love your read on the market."
	case extract.ObjectivePartner:
		return "I think there could be a strong partnership angle here."
	case extract.ObjectiveAdvisor:
		return "I'm looking for an advisor who's seen this up close."
	case extract.ObjectivePress:
		return "I have a story I think would land well with your audience."
	case extract.ObjectiveSell:
		return "I'd love to show you what we're building."
	default:
		return "I'd really appreciate a few minutes of your time."
	}
}

func atCompany(c rank.Contact) string {
	if c.Company == "" {
		return ""
	}
	return " at " + c.Company
}
