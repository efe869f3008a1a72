// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML or YAML configuration, chosen by file extension
//   - PromptStore: user-editable generation prompts with hot reload
//
// LoadSettings maps a ConfigStore onto domain.Settings and ApplyEnv layers
// environment overrides on top.
package file
