//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/messi-ai/internal/config"
	"github.com/sells-group/messi-ai/internal/llm"
	"github.com/sells-group/messi-ai/internal/model"
	"github.com/sells-group/messi-ai/internal/scrape"
)

const articlePage = `<html><body><div id="mw-content-text"><div class="mw-parser-output">
<p>Lionel Andrés Messi is an Argentine professional footballer who plays as a forward.[1]</p>
<p>Short.</p>
</div></div></body></html>`

// referenceServer serves a minimal article under a path the extractor
// recognizes.
func referenceServer(t *testing.T) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage))
	}))
	t.Cleanup(ts.Close)
	return ts.URL + "/wikipedia/Lionel_Messi"
}

// ollamaServer answers every generate call with text.
func ollamaServer(t *testing.T, text string) string {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		w.Header().Set("Content-Type", "application/x-ndjson")
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "llama3", "response": text, "done": true})
	}))
	t.Cleanup(ts.Close)
	return ts.URL
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.Server.Port = 8000
	c.LLM.Provider = llm.ProviderGemini
	c.LLM.Model = "gemini-pro"
	c.LLM.MaxTokens = 1024
	c.Gemini.Key = "AIza-test"
	c.Scrape.Sources = []string{config.DefaultSource}
	return c
}

func TestInitAggregator_MarksRecognizedSources(t *testing.T) {
	cfg = testConfig()
	cfg.Scrape.Sources = []string{
		"https://en.wikipedia.org/wiki/Lionel_Messi",
		"https://www.espn.com/soccer/player/_/id/45843/lionel-messi",
	}

	agg := initAggregator()
	assert.Equal(t, []model.ReferenceSource{
		{URL: "https://en.wikipedia.org/wiki/Lionel_Messi", Recognized: true},
		{URL: "https://www.espn.com/soccer/player/_/id/45843/lionel-messi", Recognized: false},
	}, agg.Sources())
}

func TestInitAggregator_FetchesContext(t *testing.T) {
	cfg = testConfig()
	cfg.Scrape.Sources = []string{referenceServer(t)}
	cfg.Scrape.TimeoutSecs = 5

	got := initAggregator().Aggregate(context.Background())
	assert.Equal(t, "Lionel Andrés Messi is an Argentine professional footballer who plays as a forward.", got)
}

func TestInitGenerator_Providers(t *testing.T) {
	tests := []struct {
		provider string
		setup    func(c *config.Config)
	}{
		{llm.ProviderGemini, func(c *config.Config) {}},
		{llm.ProviderAnthropic, func(c *config.Config) {
			c.Anthropic.Key = "sk-ant-test"
			c.LLM.Model = "claude-haiku-4-5-20251001"
		}},
		{llm.ProviderOllama, func(c *config.Config) {
			c.Ollama.Host = "http://localhost:11434"
			c.LLM.Model = "llama3"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg = testConfig()
			cfg.LLM.Provider = tt.provider
			tt.setup(cfg)

			gen, err := initGenerator(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.provider, gen.Provider())
			assert.Equal(t, cfg.LLM.Model, gen.Model())
		})
	}
}

func TestInitGenerator_PassesTemperature(t *testing.T) {
	var gotBody map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/x-ndjson")
		_ = json.NewEncoder(w).Encode(map[string]any{"model": "llama3", "response": "ok", "done": true})
	}))
	defer ts.Close()

	temp := 0.25
	cfg = testConfig()
	cfg.LLM.Provider = llm.ProviderOllama
	cfg.LLM.Model = "llama3"
	cfg.LLM.Temperature = &temp
	cfg.Ollama.Host = ts.URL

	gen, err := initGenerator(context.Background())
	require.NoError(t, err)
	_, err = gen.Generate(context.Background(), "q")
	require.NoError(t, err)

	opts, _ := gotBody["options"].(map[string]any)
	assert.InDelta(t, 0.25, opts["temperature"], 0.0001)
	assert.EqualValues(t, 1024, opts["num_predict"])
}

func TestInitGenerator_UnknownProvider(t *testing.T) {
	cfg = testConfig()
	cfg.LLM.Provider = "openai"

	_, err := initGenerator(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestInitCalculator_AppliesOverrides(t *testing.T) {
	cfg = testConfig()
	cfg.Pricing.Models = []config.ModelPricing{{Name: "llama3", Input: 1, Output: 2}}

	calc := initCalculator()
	assert.InDelta(t, 3.0, calc.Tokens("llama3", 1_000_000, 1_000_000), 0.0001)
	assert.Greater(t, calc.Tokens("gemini-pro", 1_000_000, 0), 0.0)
}

func TestInitApp_MissingCredential(t *testing.T) {
	cfg = testConfig()
	cfg.Gemini.Key = ""

	_, err := initApp(context.Background(), "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gemini.key is required")
}

func TestInitApp_Wires(t *testing.T) {
	cfg = testConfig()

	env, err := initApp(context.Background(), "serve")
	require.NoError(t, err)
	assert.NotNil(t, env.Aggregator)
	assert.NotNil(t, env.Answerer)
}

func TestAskCommand_PrintsResponse(t *testing.T) {
	cfg = testConfig()
	cfg.LLM.Provider = llm.ProviderOllama
	cfg.LLM.Model = "llama3"
	cfg.Ollama.Host = ollamaServer(t, "Messi is an Argentine forward.")
	cfg.Scrape.Sources = []string{referenceServer(t)}

	var out bytes.Buffer
	askCmd.SetOut(&out)
	askCmd.SetContext(context.Background())
	t.Cleanup(func() { askCmd.SetOut(nil) })

	require.NoError(t, askCmd.RunE(askCmd, []string{"Who is Messi?"}))

	var resp model.AnswerResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "Who is Messi?", resp.Question)
	assert.Equal(t, "Messi is an Argentine forward.", resp.Answer)
	assert.Equal(t, model.AnswerSource, resp.Source)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestAskCommand_ModelErrorFallsBack(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model crashed"}`))
	}))
	defer ts.Close()

	cfg = testConfig()
	cfg.LLM.Provider = llm.ProviderOllama
	cfg.LLM.Model = "llama3"
	cfg.Ollama.Host = ts.URL
	cfg.Scrape.Sources = nil

	var out bytes.Buffer
	askCmd.SetOut(&out)
	askCmd.SetContext(context.Background())
	t.Cleanup(func() { askCmd.SetOut(nil) })

	require.NoError(t, askCmd.RunE(askCmd, []string{"q"}))
	assert.Contains(t, out.String(), "I'm sorry, I encountered an error while generating the response.")
}

func TestContextCommand_PrintsAggregatedContext(t *testing.T) {
	cfg = testConfig()
	cfg.Gemini.Key = ""
	cfg.Scrape.Sources = []string{referenceServer(t)}

	var out bytes.Buffer
	contextCmd.SetOut(&out)
	contextCmd.SetContext(context.Background())
	t.Cleanup(func() { contextCmd.SetOut(nil) })

	require.NoError(t, contextCmd.RunE(contextCmd, nil))
	assert.Equal(t, "Lionel Andrés Messi is an Argentine professional footballer who plays as a forward.\n", out.String())
}

func TestContextCommand_NoRecognizedSources(t *testing.T) {
	cfg = testConfig()
	cfg.Scrape.Sources = []string{"https://example.com/messi"}

	var out bytes.Buffer
	contextCmd.SetOut(&out)
	contextCmd.SetContext(context.Background())
	t.Cleanup(func() { contextCmd.SetOut(nil) })

	require.NoError(t, contextCmd.RunE(contextCmd, nil))
	assert.Equal(t, scrape.NoInformation, strings.TrimSpace(out.String()))
}

func TestConfigCommand_RedactsCredentials(t *testing.T) {
	cfg = testConfig()
	cfg.Gemini.Key = "AIza-secret"
	cfg.Anthropic.Key = "sk-ant-secret"

	var out bytes.Buffer
	configCmd.SetOut(&out)
	t.Cleanup(func() { configCmd.SetOut(nil) })

	require.NoError(t, configCmd.RunE(configCmd, nil))

	text := out.String()
	assert.NotContains(t, text, "AIza-secret")
	assert.NotContains(t, text, "sk-ant-secret")
	assert.Contains(t, text, "key: REDACTED")
	assert.Contains(t, text, "model: gemini-pro")
	assert.Equal(t, "AIza-secret", cfg.Gemini.Key, "redaction must not touch the live config")
}

func TestRedactConfig_LeavesEmptyKeys(t *testing.T) {
	c := testConfig()
	c.Gemini.Key = ""

	r := redactConfig(*c)
	assert.Empty(t, r.Gemini.Key)
	assert.Empty(t, r.Anthropic.Key)
}
