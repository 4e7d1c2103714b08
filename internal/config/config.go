/*
Package config builds the single explicit configuration struct for a run.
No other package reads environment variables.
*/
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	geminiAPIKeyEnv   = "GEMINI_API_KEY"
	geminiModelEnv    = "GEMINI_MODEL"
	maxLLMCallsEnv    = "MAX_LLM_CALLS"
	batchSizeEnv      = "BATCH_SIZE"
	senderEmailEnv    = "SENDER_EMAIL"
	recipientEmailEnv = "RECIPIENT_EMAIL"
	smtpServerEnv     = "SMTP_SERVER"
	smtpPortEnv       = "SMTP_PORT"
	smtpPasswordEnv   = "SMTP_PASSWORD"
	s2APIKeyEnv       = "S2_API_KEY"
	stateDirEnv       = "DIGEST_STATE_DIR"
	reportDirEnv      = "DIGEST_REPORT_DIR"
	queryFileEnv      = "DIGEST_QUERY_FILE"

	defaultModel       = "gemini-2.5-flash"
	defaultMaxLLMCalls = 80
	defaultBatchSize   = 10
	defaultSMTPServer  = "smtp.gmail.com"
	defaultSMTPPort    = 587
	defaultStateDir    = "."
	defaultReportDir   = "reports"
)

// EmailConfig holds SMTP settings for digest delivery.
type EmailConfig struct {
	SMTPServer string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string
	FromEmail  string
	ToEmail    string
	Enabled    bool
}

// Config is the full run configuration, constructed once at startup and
// passed through the pipeline.
type Config struct {
	GeminiAPIKey string
	GeminiModel  string
	MaxLLMCalls  int
	BatchSize    int

	ArxivQueries []string
	S2Queries    []string
	HFKeywords   []string
	S2APIKey     string

	Email EmailConfig

	StateDir  string
	ReportDir string
}

// queryFile is the optional YAML override for the built-in search strings.
type queryFile struct {
	ArxivQueries []string `yaml:"arxiv_queries"`
	S2Queries    []string `yaml:"s2_queries"`
	HFKeywords   []string `yaml:"hf_keywords"`
}

// Load reads environment variables (and the optional query file) into a Config.
func Load() Config {
	cfg := Config{
		GeminiAPIKey: os.Getenv(geminiAPIKeyEnv),
		GeminiModel:  envOr(geminiModelEnv, defaultModel),
		MaxLLMCalls:  envIntOr(maxLLMCallsEnv, defaultMaxLLMCalls),
		BatchSize:    envIntOr(batchSizeEnv, defaultBatchSize),
		ArxivQueries: defaultArxivQueries(),
		S2Queries:    defaultS2Queries(),
		HFKeywords:   defaultHFKeywords(),
		S2APIKey:     os.Getenv(s2APIKeyEnv),
		StateDir:     envOr(stateDirEnv, defaultStateDir),
		ReportDir:    envOr(reportDirEnv, defaultReportDir),
	}

	sender := os.Getenv(senderEmailEnv)
	recipient := os.Getenv(recipientEmailEnv)
	password := os.Getenv(smtpPasswordEnv)

	cfg.Email = EmailConfig{
		SMTPServer: envOr(smtpServerEnv, defaultSMTPServer),
		SMTPPort:   envIntOr(smtpPortEnv, defaultSMTPPort),
		SMTPUser:   sender,
		SMTPPass:   password,
		FromEmail:  sender,
		ToEmail:    recipient,
		Enabled:    sender != "" && recipient != "" && password != "",
	}

	if path := os.Getenv(queryFileEnv); path != "" {
		cfg.applyQueryFile(path)
	}

	return cfg
}

func (c *Config) applyQueryFile(path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("config: cannot read query file %s: %v (keeping built-in queries)", path, err)
		return
	}

	var qf queryFile
	if err := yaml.Unmarshal(raw, &qf); err != nil {
		log.Printf("config: cannot parse query file %s: %v (keeping built-in queries)", path, err)
		return
	}

	if len(qf.ArxivQueries) > 0 {
		c.ArxivQueries = qf.ArxivQueries
	}
	if len(qf.S2Queries) > 0 {
		c.S2Queries = qf.S2Queries
	}
	if len(qf.HFKeywords) > 0 {
		c.HFKeywords = qf.HFKeywords
	}
}

// Validate checks required settings before any network call is made.
// Email settings are required only when email delivery will be attempted.
func (c Config) Validate(emailRequired bool) error {
	var missing []string

	if c.GeminiAPIKey == "" {
		missing = append(missing, geminiAPIKeyEnv)
	}

	if emailRequired && !c.Email.Enabled {
		if c.Email.FromEmail == "" {
			missing = append(missing, senderEmailEnv)
		}
		if c.Email.ToEmail == "" {
			missing = append(missing, recipientEmailEnv)
		}
		if c.Email.SMTPPass == "" {
			missing = append(missing, smtpPasswordEnv)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	if c.MaxLLMCalls <= 0 {
		return fmt.Errorf("%s must be positive, got %d", maxLLMCallsEnv, c.MaxLLMCalls)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%s must be positive, got %d", batchSizeEnv, c.BatchSize)
	}

	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

// defaultArxivQueries covers RecSys, ranking/retrieval and LLM-for-RecSys
// research on the arXiv search API.
func defaultArxivQueries() []string {
	return []string{
		`all:"recommendation system" OR all:"recommender system"`,
		`all:"collaborative filtering"`,
		`all:"click-through rate" OR all:"CTR prediction"`,
		`all:"learning to rank"`,
		`all:"information retrieval" AND cat:cs.IR`,
		`all:"large language model" AND all:"recommendation"`,
		`all:"LLM" AND all:"ranking"`,
		`all:"large language model" AND all:"retrieval"`,
		`all:"retrieval-augmented generation"`,
		`all:"generative retrieval"`,
		`all:"dense retrieval"`,
		`all:"neural information retrieval"`,
		`all:"LLM" AND all:"relevance" AND all:"search"`,
	}
}

func defaultS2Queries() []string {
	return []string{
		"recommender system",
		"collaborative filtering",
		"large language model recommendation",
		"learning to rank",
		"retrieval augmented generation",
		"dense retrieval",
	}
}

func defaultHFKeywords() []string {
	return []string{
		"recommendation", "recommender", "collaborative filtering",
		"click-through", "learning to rank", "re-ranking", "reranking",
		"retrieval", "ranking", "information retrieval", "search relevance",
	}
}
