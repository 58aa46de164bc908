package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Adda-Baaj/news-digest/pkg/sites"

	"gopkg.in/yaml.v3"
)

const (
	// Supported publisher types.
	TypeQueue = "queue"
	TypeHTTP  = "http"

	// Supported queue providers.
	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderGCP    = "gcp"

	httpDefaultTimeoutSeconds = 5
)

// fileSchema is the top-level layout of a publishers file.
type fileSchema struct {
	Publishers []PublisherConfig `json:"publishers" yaml:"publishers"`
}

// PublisherConfig declares one sink.
type PublisherConfig struct {
	ID      string                `json:"id" yaml:"id"`
	Type    string                `json:"type" yaml:"type"`
	Enabled *bool                 `json:"enabled" yaml:"enabled"`
	Sources []string              `json:"sources" yaml:"sources"` // empty means every source
	Queue   *QueuePublisherConfig `json:"queue" yaml:"queue"`
	HTTP    *HTTPPublisherConfig  `json:"http" yaml:"http"`
}

// QueuePublisherConfig selects a cloud queue provider.
type QueuePublisherConfig struct {
	Provider string          `json:"provider" yaml:"provider"`
	SQS      *AWSQueueConfig `json:"sqs" yaml:"sqs"`
	SNS      *AWSQueueConfig `json:"sns" yaml:"sns"`
	GCP      *GCPQueueConfig `json:"gcp" yaml:"gcp"`
}

// AWSQueueConfig addresses an SQS queue (Target is the queue URL) or an SNS topic
// (Target is the topic ARN). Without static keys the default AWS credential chain is used.
type AWSQueueConfig struct {
	Target          string `json:"target" yaml:"target"`
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// GCPQueueConfig addresses a Pub/Sub topic.
type GCPQueueConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPPublisherConfig holds webhook settings. Events are POSTed as JSON.
type HTTPPublisherConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// EnabledValue returns the enabled flag, defaulting to true.
func (cfg PublisherConfig) EnabledValue() bool {
	return cfg.Enabled == nil || *cfg.Enabled
}

// Accepts reports whether this publisher wants articles from source.
func (cfg PublisherConfig) Accepts(source string) bool {
	return len(cfg.Sources) == 0 || slices.Contains(cfg.Sources, source)
}

// LoadConfigs reads publisher definitions from a YAML or JSON file.
// ${VAR} references are expanded from the environment before decoding.
func LoadConfigs(path string) ([]PublisherConfig, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	schema, err := decodeConfigs([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	return ParseConfigs(schema.Publishers)
}

// ParseConfigs normalizes and validates already decoded entries.
func ParseConfigs(entries []PublisherConfig) ([]PublisherConfig, error) {
	if len(entries) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	out := make([]PublisherConfig, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for i, entry := range entries {
		cfg := normalize(entry)
		if err := validate(cfg); err != nil {
			return nil, fmt.Errorf("publishers[%d]: %w", i, err)
		}
		if _, dup := seen[cfg.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", cfg.ID)
		}
		seen[cfg.ID] = struct{}{}
		out = append(out, cfg)
	}
	return out, nil
}

// Enabled filters cfgs down to the enabled entries.
func Enabled(cfgs []PublisherConfig) []PublisherConfig {
	out := make([]PublisherConfig, 0, len(cfgs))
	for _, cfg := range cfgs {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

func decodeConfigs(data []byte, ext string) (fileSchema, error) {
	var schema fileSchema
	var err error
	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(data, &schema)
	case ".yaml", ".yml", "":
		err = yaml.Unmarshal(data, &schema)
	default:
		return schema, fmt.Errorf("publishers file extension %q not supported (expected .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return schema, fmt.Errorf("decode publishers file: %w", err)
	}
	return schema, nil
}

func normalize(cfg PublisherConfig) PublisherConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	sources := make([]string, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			sources = append(sources, s)
		}
	}
	cfg.Sources = sources

	if q := cfg.Queue; q != nil {
		qc := *q
		qc.Provider = strings.ToLower(strings.TrimSpace(qc.Provider))
		qc.SQS = trimAWS(qc.SQS)
		qc.SNS = trimAWS(qc.SNS)
		if qc.GCP != nil {
			g := *qc.GCP
			g.ProjectID = strings.TrimSpace(g.ProjectID)
			g.Topic = strings.TrimSpace(g.Topic)
			g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
			qc.GCP = &g
		}
		cfg.Queue = &qc
	}

	if h := cfg.HTTP; h != nil {
		hc := *h
		hc.URL = strings.TrimSpace(hc.URL)
		hc.Headers = trimHeaders(hc.Headers)
		if hc.TimeoutSeconds <= 0 {
			hc.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &hc
	}
	return cfg
}

func trimAWS(in *AWSQueueConfig) *AWSQueueConfig {
	if in == nil {
		return nil
	}
	a := *in
	a.Target = strings.TrimSpace(a.Target)
	a.Region = strings.TrimSpace(a.Region)
	a.AccessKeyID = strings.TrimSpace(a.AccessKeyID)
	a.SecretAccessKey = strings.TrimSpace(a.SecretAccessKey)
	return &a
}

func trimHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func validate(cfg PublisherConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	for _, s := range cfg.Sources {
		if _, ok := sites.ProfileByID(s); !ok {
			return fmt.Errorf("publisher %q lists unknown source %q", cfg.ID, s)
		}
	}

	switch cfg.Type {
	case TypeHTTP:
		if cfg.HTTP == nil || cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for publisher %q", cfg.ID)
		}
		return nil
	case TypeQueue:
		if cfg.Queue == nil {
			return fmt.Errorf("queue config required for publisher %q", cfg.ID)
		}
		switch cfg.Queue.Provider {
		case QueueProviderAWSSQS:
			return validateAWS(cfg.ID, "sqs", cfg.Queue.SQS)
		case QueueProviderAWSSNS:
			return validateAWS(cfg.ID, "sns", cfg.Queue.SNS)
		case QueueProviderGCP:
			g := cfg.Queue.GCP
			if g == nil || g.ProjectID == "" || g.Topic == "" {
				return fmt.Errorf("gcp.project_id and gcp.topic are required for publisher %q", cfg.ID)
			}
			return nil
		default:
			return fmt.Errorf("queue provider %q not supported for publisher %q", cfg.Queue.Provider, cfg.ID)
		}
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	default:
		return fmt.Errorf("type %q not supported for publisher %q", cfg.Type, cfg.ID)
	}
}

func validateAWS(id, name string, cfg *AWSQueueConfig) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%s config required for publisher %q", name, id)
	case cfg.Target == "":
		return fmt.Errorf("%s.target is required for publisher %q", name, id)
	case cfg.Region == "":
		return fmt.Errorf("%s.region is required for publisher %q", name, id)
	case (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == ""):
		return fmt.Errorf("%s.access_key_id and %s.secret_access_key must be set together for publisher %q", name, name, id)
	}
	return nil
}
