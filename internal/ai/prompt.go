package ai

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"polyoracle/internal/client/gamma"
	"polyoracle/internal/client/newsapi"
	"polyoracle/internal/client/reddit"
	"polyoracle/internal/models"
)

// SystemPrompt fixes the scoring rubric and demands JSON-only output. The
// response is still treated as untrusted free text; see ExtractJSON.
const SystemPrompt = `You are PolyOracle, an expert AI analyst for Polymarket prediction markets. Generate trading signals by analyzing whale trades, news, and social sentiment.

Signal Score Guide (0-100):
- 0-30: Strong bearish (market overpriced)
- 31-55: Neutral/Hold
- 56-70: Moderate bullish
- 71-100: Strong bullish (market underpriced)

Always respond with valid JSON only. No markdown, no explanations outside JSON.`

const maxPromptItems = 3

// BuildPrompt assembles the single-turn analysis request: market metadata,
// the top estimated whale positions, recent headlines, and Reddit aggregates.
func BuildPrompt(market gamma.Market, trades []models.WhaleTrade, articles []newsapi.Article, posts []reddit.Post) string {
	var b strings.Builder

	b.WriteString("Analyze this Polymarket prediction market:\n\n")

	b.WriteString("## MARKET\n")
	fmt.Fprintf(&b, "Question: %s\n", market.Question)
	if price, ok := market.YesPrice(); ok {
		fmt.Fprintf(&b, "Current Price: $%s\n", price.String())
	} else {
		b.WriteString("Current Price: N/A\n")
	}
	fmt.Fprintf(&b, "Volume: $%s\n", gamma.SanitizeAmount(market.Volume).StringFixed(0))
	if end, ok := market.EndDateTime(); ok {
		fmt.Fprintf(&b, "End Date: %s\n", end.Format("2006-01-02"))
	} else {
		b.WriteString("End Date: Unknown\n")
	}

	b.WriteString("\n## WHALE ACTIVITY (Volume-Based Estimate)\n")
	fmt.Fprintf(&b, "Estimated %d whale-sized positions based on market volume\n", len(trades))
	total := decimal.Zero
	for _, t := range trades {
		total = total.Add(t.SizeUSD)
	}
	fmt.Fprintf(&b, "Total Estimated Volume: $%s\n", total.StringFixed(0))
	if len(trades) == 0 {
		b.WriteString("No significant whale activity detected\n")
	}
	for i, t := range trades {
		if i >= maxPromptItems {
			break
		}
		fmt.Fprintf(&b, "%d. %s ~$%s @ $%s\n", i+1, t.Side, t.SizeUSD.StringFixed(0), t.Price.String())
	}
	b.WriteString("Note: Estimates based on volume patterns, not observed fills.\n")

	b.WriteString("\n## NEWS (Last 48h)\n")
	fmt.Fprintf(&b, "Count: %d\n", len(articles))
	if len(articles) == 0 {
		b.WriteString("No recent news\n")
	}
	for i, a := range articles {
		if i >= maxPromptItems {
			break
		}
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, a.Title, a.Source)
	}

	b.WriteString("\n## REDDIT SENTIMENT\n")
	fmt.Fprintf(&b, "Posts: %d\n", len(posts))
	if len(posts) == 0 {
		b.WriteString("No Reddit activity\n")
	} else {
		totalScore := 0
		totalRatio := 0.0
		for _, p := range posts {
			totalScore += p.Score
			totalRatio += p.UpvoteRatio
		}
		fmt.Fprintf(&b, "Top: %q\n", posts[0].Title)
		fmt.Fprintf(&b, "Score: %d\n", totalScore)
		fmt.Fprintf(&b, "Avg Upvote: %.0f%%\n", totalRatio/float64(len(posts))*100)
		fmt.Fprintf(&b, "Engagement Sentiment: %d/100\n", reddit.SentimentScore(posts))
	}

	b.WriteString(`
Generate trading signal. Respond with ONLY this JSON structure:
{
  "score": <0-100>,
  "action": "BUY"|"SELL"|"HOLD"|"WATCH",
  "confidence": "LOW"|"MEDIUM"|"HIGH",
  "urgency": "LOW"|"MEDIUM"|"HIGH"|"CRITICAL",
  "reasoning": {
    "summary": "<2-3 sentences>",
    "whale_analysis": "<analysis of estimated whale positions>",
    "news_analysis": "<analysis of news impact>",
    "reddit_analysis": "<analysis of sentiment>",
    "risk_factors": ["<factor1>", "<factor2>"],
    "key_insights": ["<insight1>", "<insight2>"]
  },
  "entry_price": <number or null>,
  "target_price": <number or null>
}`)

	return b.String()
}
