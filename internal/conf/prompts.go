package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PromptsConfig contains all prompt configurations loaded from YAML
type PromptsConfig struct {
	Reply     ReplyPrompts     `yaml:"reply"`
	Proactive ProactivePrompts `yaml:"proactive"`
	History   HistoryConfig    `yaml:"history"`
}

// ReplyPrompts contains inbound reply prompts
type ReplyPrompts struct {
	SystemPrompt string `yaml:"system_prompt"`
}

// ProactivePrompts contains proactive check-in prompts
type ProactivePrompts struct {
	SystemPrompt string `yaml:"system_prompt"`
	Template     string `yaml:"template"`
}

// HistoryConfig contains history truncation settings
type HistoryConfig struct {
	MaxCount int `yaml:"max_count"`
}

// LoadPromptsConfig loads prompts configuration from a YAML file, falling
// back to defaults when no file is found
func LoadPromptsConfig(configPath string) (*PromptsConfig, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/prompts.yaml",
			"./configs/prompts.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "prompts.yaml"))
		}
	}

	var data []byte
	var loadedPath string
	var err error

	for _, p := range paths {
		if p == "" {
			continue
		}
		data, err = os.ReadFile(p)
		if err == nil {
			loadedPath = p
			break
		}
	}

	if data == nil {
		fmt.Println("[Config] No prompts.yaml found, using defaults")
		return &PromptsConfig{History: HistoryConfig{MaxCount: 20}}, nil
	}

	fmt.Printf("[Config] Loading prompts from: %s\n", loadedPath)

	var cfg PromptsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse prompts config: %w", err)
	}
	if cfg.History.MaxCount <= 0 {
		cfg.History.MaxCount = 20
	}
	return &cfg, nil
}
