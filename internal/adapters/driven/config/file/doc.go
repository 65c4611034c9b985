// Package file stores settings and prompt templates under the config
// directory (~/.sportscom by default): config.toml for settings and one
// editable .txt file per prompt.
package file
