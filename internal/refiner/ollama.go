package refiner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valpere/loctran/internal/postprocess"
)

// OllamaRefiner uses a local Ollama model to polish draft cell translations.
type OllamaRefiner struct {
	model   string
	baseURL string
	client  *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// NewOllamaRefiner creates a refiner backed by a local Ollama model.
func NewOllamaRefiner(model, baseURL string) *OllamaRefiner {
	return &OllamaRefiner{
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// Refine sends the draft to the LLM with a reviewer prompt and returns the
// polished translation. An empty completion falls back to the draft.
func (r *OllamaRefiner) Refine(ctx context.Context, sourceLang, targetLang, sourceText, draftText string) (string, error) {
	prompt := buildRefinementPrompt(sourceLang, targetLang, sourceText, draftText)

	reqBody := ollamaRequest{
		Model:  r.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal refinement request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/generate", r.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create refinement request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("refinement request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refiner returned status %d", resp.StatusCode)
	}

	var ollamaResp ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return "", fmt.Errorf("failed to decode refinement response: %w", err)
	}

	refined := postprocess.Clean(ollamaResp.Response)
	if refined == "" {
		return draftText, nil
	}
	return refined, nil
}

func buildRefinementPrompt(sourceLang, targetLang, sourceText, draftText string) string {
	return fmt.Sprintf(`You are a %s localization reviewer for user-facing product strings.

You will receive a DRAFT %s translation of one string. Improve it only
where needed: fix awkward literal phrasing, use natural %s wording, and
keep the register consistent with short interface text.

ORIGINAL (%s):
%s

DRAFT (%s):
%s

Rules:
- Preserve the exact meaning; never add or drop information.
- Keep [PHn] markers, numbers, and proper nouns exactly as they appear.
- Keep it roughly as short as the draft; this is interface text, not prose.
- If the draft is already good, return it unchanged.

Return ONLY the final %s string, with no explanations, notes, or thinking process.`,
		targetLang,
		targetLang, targetLang,
		sourceLang, sourceText,
		targetLang, draftText,
		targetLang,
	)
}
