package ai

import (
	"fmt"
	"strconv"
	"strings"
)

// SystemMessage frames the model as a virality analyst
const SystemMessage = "You are an expert at analyzing tweet virality based on X's open-source recommendation algorithm. " +
	"You understand engagement patterns, content quality, and what makes tweets go viral. " +
	"Provide detailed, actionable analysis in JSON format."

// Account-size band boundaries used in the prompt
const (
	SmallAccountMax  = 1_000
	MediumAccountMax = 50_000
)

// buildAnalysisPrompt embeds the post, the follower count (or "unknown") and the bio
// (or "not available") into the analysis instructions
func buildAnalysisPrompt(content string, followerCount *int, bio string) string {
	var b strings.Builder

	b.WriteString("You are an expert X growth advisor. Analyze this post and give ACTIONABLE, SPECIFIC feedback to improve engagement.\n\n")
	fmt.Fprintf(&b, "Post: \"%s\"\n\n", content)

	if followerCount != nil {
		fmt.Fprintf(&b, "User follower count: %s followers\n", formatThousands(*followerCount))
	} else {
		b.WriteString("User follower count: unknown\n")
	}

	bio = strings.TrimSpace(bio)
	if bio != "" {
		fmt.Fprintf(&b, "User bio: \"%s\"\n", bio)
		b.WriteString("Use the bio to understand the user's niche, expertise and audience, and judge how the post fits their personal brand.\n")
	} else {
		b.WriteString("User bio: not available\n")
	}

	b.WriteString(promptInstructions)
	b.WriteString(promptEngagementGuidelines)
	b.WriteString(promptSchema)

	return b.String()
}

const promptInstructions = `
INSTRUCTIONS:
- Be direct and honest about what is lacking
- Focus on HIGH-IMPACT changes the user can make right now
- Keep the core message intact; do not rewrite the whole post
- Suggest SPECIFIC edits (rephrase this part, add a question, change the tone)
- Order suggestions by impact
- Do NOT suggest adding hashtags
- Use emojis sparingly, at most 1-2 per post and only when they add value

X's ranking favors:
- 100-250 characters
- Questions that drive replies
- Emotional triggers (curiosity, inspiration, controversy)
- Clear value (teach, entertain, inspire)
- Line breaks for readability
- An authentic voice
- Conversation starters over announcements
`

const promptEngagementGuidelines = `
ENGAGEMENT PREDICTION GUIDELINES (FOLLOW EXACTLY):
- Always return followerCount (the follower count you used, or null if unknown)
- Base predictions on follower count, content quality and typical X engagement rates
- Ordering is mandatory: Views > Likes > max(Replies, Retweets)
- Engagement on X is low, be conservative:
  * Views: 5-20% of followers (50% at most for exceptional content)
  * Likes: 1-3% of views
  * Replies: 5-15% of likes
  * Retweets: 10-30% of likes

By account size:
- Small accounts (<1K followers):
  * Views = followers x 0.1 to 0.3
  * Likes = views x 0.02 to 0.04
  * Replies = likes x 0.05 to 0.1
  * Retweets = likes x 0.15 to 0.25
- Medium accounts (1K-50K followers):
  * Views = followers x 0.08 to 0.15
  * Likes = views x 0.015 to 0.03
  * Replies = likes x 0.05 to 0.1
  * Retweets = likes x 0.15 to 0.25
- Large accounts (>50K followers):
  * Views = followers x 0.05 to 0.12
  * Likes = views x 0.01 to 0.025
  * Replies = likes x 0.05 to 0.1
  * Retweets = likes x 0.15 to 0.3
- Unknown follower count: assume 500-2000 views and apply the same ratios

Example for 10K followers and good content:
  CORRECT: Views=1200, Likes=30, Replies=3, Retweets=8
  WRONG: Views=35000, Likes=500
`

const promptSchema = `
Respond with JSON in exactly this format:
{
  "overallScore": <number 0-100>,
  "rating": "<Viral Potential|Strong Performance|Good|Needs Improvement|Low Engagement>",
  "metrics": {
    "lengthScore": <0-100>,
    "mentionScore": <0-100>,
    "linkScore": <0-100>,
    "mediaIndicatorScore": <0-100>,
    "questionScore": <0-100>,
    "engagementScore": <0-100>,
    "structureScore": <0-100>,
    "readabilityScore": <0-100>,
    "contentQualityScore": <0-100>,
    "toneScore": <0-100>
  },
  "engagementPrediction": {
    "followerCount": <number or null>,
    "views": "<estimated views, the highest figure>",
    "likes": "<estimated likes, less than views>",
    "replies": "<estimated replies, less than likes>",
    "retweets": "<estimated retweets, less than likes>",
    "reasoning": "<one sentence>"
  },
  "tone": "<inspirational|educational|controversial|humorous|neutral|other>",
  "strengths": ["<specific thing done well, at most 2 items>"],
  "suggestions": [
    {
      "issue": "<what is missing or weak>",
      "suggestion": "<the exact edit, e.g. 'End with: What's your favorite tip?'>",
      "impact": "<high|medium|low>"
    }
  ],
  "rewriteExample": "<the original post with your top 3 suggestions applied; no hashtags; use \n line breaks where they help>",
  "risks": ["<1-2 specific risks, or an empty array>"]
}

Make every suggestion concrete enough that the user knows exactly what to type.`

// formatThousands renders a non-negative n with comma separators
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
