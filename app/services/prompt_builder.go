package services

import (
	"fmt"
	"strings"

	"github.com/ozvena/ozvena/models"
)

// PromptPair holds the system and user prompts for one simulation run
type PromptPair struct {
	System string
	User   string
}

// platformStyleHint returns the platform-specific comment style directive.
// Unknown platforms get no hint; prompt generation never fails on an
// unrecognized platform string.
func platformStyleHint(platform models.SocialPlatform) string {
	switch platform {
	case models.PlatformTwitter:
		return "- Keep comments concise (under 280 characters ideal), use casual tone, hashtags acceptable"
	case models.PlatformFacebook:
		return "- More conversational, can be longer, emojis common, personal anecdotes welcome"
	case models.PlatformInstagram:
		return "- Visual-focused reactions, use emojis, shorter comments, trendy language"
	case models.PlatformLinkedIn:
		return "- Professional tone, thoughtful insights, business-oriented perspective"
	case models.PlatformTikTok:
		return "- Very casual, Gen-Z style, short and punchy, trendy slang acceptable"
	default:
		return ""
	}
}

// BuildPrompts constructs the system and user prompts for a simulation.
// Deterministic: identical inputs produce byte-identical prompts. The system
// prompt fixes the model's role, mandates first-person reactions and the
// strict JSON output shape; the user prompt restates the campaign and
// target-group data and repeats the persona count to anchor the model's
// counting.
func BuildPrompts(campaignName, campaignContent string, platform models.SocialPlatform, targetGroupName, targetGroupDescription string, personaCount int) PromptPair {
	platformName := platform.DisplayName()
	styleHint := platformStyleHint(platform)

	var style strings.Builder
	fmt.Fprintf(&style, "4. PLATFORM-SPECIFIC STYLE - Adapt comment style to %s:", platformName)
	if styleHint != "" {
		style.WriteString("\n   ")
		style.WriteString(styleHint)
	}

	systemPrompt := fmt.Sprintf(`You are an expert marketing analyst specializing in consumer behavior and persona simulation. Your task is to generate realistic reactions from diverse personas to marketing campaigns on %s.

CRITICAL INSTRUCTIONS:
1. Generate exactly %d unique personas based on the provided target group description
2. Each persona must be distinct with their own characteristics, demographics, and mindset
3. For each persona, write their reaction as a FIRST-PERSON COMMENT (using "I", "my", "me")
%s
5. Analyze sentiment (positive, negative, or neutral), relevance, and toxicity
6. Your response MUST be valid JSON only, no additional text

OUTPUT FORMAT (strict JSON):
{
  "reactions": [
    {
      "persona_name": "Descriptive persona name",
      "content": "First-person reaction using I/my/me",
      "sentiment": "positive|negative|neutral",
      "relevance_score": 0.85,
      "toxicity_score": 0.05
    }
  ]
}

SCORING GUIDELINES:
- relevance_score (0.0-1.0): How relevant is this campaign to the persona
- toxicity_score (0.0-1.0): How toxic/offensive is the reaction (typically low)

Requirements:
- ALL reactions in first-person (I/my/me), never third-person
- Be realistic - not all personas react positively
- Natural, conversational tone
- Response must be parseable JSON with no markdown`,
		platformName, personaCount, style.String())

	userPrompt := fmt.Sprintf(`Generate %d persona reactions for this marketing campaign on %s:

CAMPAIGN NAME: %s

CAMPAIGN CONTENT:
%s

TARGET GROUP: %s
DESCRIPTION: %s

Generate exactly %d unique personas with first-person reactions. Return only JSON.`,
		personaCount, platformName, campaignName, campaignContent,
		targetGroupName, targetGroupDescription, personaCount)

	return PromptPair{System: systemPrompt, User: userPrompt}
}
