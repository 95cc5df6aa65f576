package assistant

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Researcher runs one-shot company research questions against Gemini
// directly. Unlike the chat loop, research does not touch scenario state, so
// it bypasses the provider abstraction and keeps its own client.
type Researcher struct {
	client    *genai.Client
	modelName string
}

// ResearchNote is a single research answer with any sources the model cited.
type ResearchNote struct {
	Topic   string   `json:"topic"`
	Content string   `json:"content"`
	Sources []string `json:"sources,omitempty"`
}

const researcherSystemPrompt = "You are an equity research analyst. Answer concisely with concrete figures " +
	"and name your sources inline as markdown links where you have them."

func NewResearcher(ctx context.Context) (*Researcher, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %v", err)
	}

	return &Researcher{
		client:    client,
		modelName: "gemini-3-flash-preview",
	}, nil
}

func (r *Researcher) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Research answers a single topic about a company, e.g. "competitive
// pressure on gross margins".
func (r *Researcher) Research(ctx context.Context, company, topic string) (ResearchNote, error) {
	if strings.TrimSpace(company) == "" || strings.TrimSpace(topic) == "" {
		return ResearchNote{}, fmt.Errorf("company and topic are required")
	}

	model := r.client.GenerativeModel(r.modelName)
	model.SetTemperature(0.4)

	prompt := fmt.Sprintf("%s\n\nTask: Research %s for %s. Focus on what would move revenue growth, margins, or the discount rate in a 5-year projection.",
		researcherSystemPrompt, topic, company)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ResearchNote{}, fmt.Errorf("research call failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ResearchNote{Topic: topic, Content: "No findings."}, nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return ResearchNote{
		Topic:   topic,
		Content: strings.TrimSpace(sb.String()),
		Sources: extractMarkdownLinks(sb.String()),
	}, nil
}

// extractMarkdownLinks pulls [title](url) references out of the answer body
// and de-duplicates them by URL.
func extractMarkdownLinks(s string) []string {
	var links []string
	seen := map[string]bool{}
	for {
		open := strings.Index(s, "](")
		if open == -1 {
			break
		}
		rest := s[open+2:]
		end := strings.Index(rest, ")")
		if end == -1 {
			break
		}
		url := strings.TrimSpace(rest[:end])
		if strings.HasPrefix(url, "http") && !seen[url] {
			seen[url] = true
			links = append(links, url)
		}
		s = rest[end+1:]
	}
	return links
}
