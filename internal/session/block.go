package session

import (
	"encoding/json"
	"fmt"
)

// BlockType constants for JSON serialization
const (
	BlockTypeText       = "text"
	BlockTypeThinking   = "thinking"
	BlockTypeToolUse    = "tool_use"
	BlockTypeToolResult = "tool_result"
)

// Block represents content within a message
type Block interface {
	BlockType() string
}

type TextBlock struct {
	Text string `json:"text"`
}

func (b TextBlock) BlockType() string { return BlockTypeText }

type ThinkingBlock struct {
	Thinking string `json:"thinking"`
}

func (b ThinkingBlock) BlockType() string { return BlockTypeThinking }

// ToolUseBlock is a tool invocation. Input carries the full arguments as
// read from the transcript; FilePath, Description and CommandPreview are
// the stripped-down fields the filter emits instead.
type ToolUseBlock struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name"`
	Input          map[string]any `json:"input,omitempty"`
	FilePath       string         `json:"file_path,omitempty"`
	Description    string         `json:"description,omitempty"`
	CommandPreview string         `json:"command_preview,omitempty"`
}

func (b ToolUseBlock) BlockType() string { return BlockTypeToolUse }

// InputString returns a string argument from the tool input.
func (b ToolUseBlock) InputString(key string) string {
	if s, ok := b.Input[key].(string); ok {
		return s
	}
	return ""
}

type ToolResultBlock struct {
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content,omitempty"`
}

func (b ToolResultBlock) BlockType() string { return BlockTypeToolResult }

// UnknownBlock preserves block types this package doesn't model.
type UnknownBlock struct {
	Type string
	Raw  json.RawMessage
}

func (b UnknownBlock) BlockType() string { return b.Type }

// BlockWrapper handles JSON serialization of Block interface
type BlockWrapper struct {
	Block Block
}

// MarshalJSON serializes a Block with its type
func (w BlockWrapper) MarshalJSON() ([]byte, error) {
	switch b := w.Block.(type) {
	case TextBlock:
		return json.Marshal(struct {
			Type string `json:"type"`
			TextBlock
		}{BlockTypeText, b})
	case ThinkingBlock:
		return json.Marshal(struct {
			Type string `json:"type"`
			ThinkingBlock
		}{BlockTypeThinking, b})
	case ToolUseBlock:
		return json.Marshal(struct {
			Type string `json:"type"`
			ToolUseBlock
		}{BlockTypeToolUse, b})
	case ToolResultBlock:
		return json.Marshal(struct {
			Type string `json:"type"`
			ToolResultBlock
		}{BlockTypeToolResult, b})
	case UnknownBlock:
		return b.Raw, nil
	default:
		return nil, fmt.Errorf("unknown block type: %T", w.Block)
	}
}

// UnmarshalBlock deserializes JSON into the appropriate Block type
func UnmarshalBlock(data []byte) (Block, error) {
	var typeCheck struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &typeCheck); err != nil {
		return nil, err
	}

	switch typeCheck.Type {
	case BlockTypeText, "":
		var b TextBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	case BlockTypeThinking:
		var b ThinkingBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	case BlockTypeToolUse:
		var b ToolUseBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	case BlockTypeToolResult:
		var b ToolResultBlock
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return b, nil
	default:
		raw := make(json.RawMessage, len(data))
		copy(raw, data)
		return UnknownBlock{Type: typeCheck.Type, Raw: raw}, nil
	}
}

// UnmarshalBlocks deserializes a JSON array of blocks
func UnmarshalBlocks(data []byte) ([]Block, error) {
	var rawBlocks []json.RawMessage
	if err := json.Unmarshal(data, &rawBlocks); err != nil {
		return nil, err
	}

	blocks := make([]Block, 0, len(rawBlocks))
	for _, raw := range rawBlocks {
		block, err := UnmarshalBlock(raw)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// MarshalBlocks serializes blocks with type information
func MarshalBlocks(blocks []Block) ([]byte, error) {
	wrappers := make([]BlockWrapper, len(blocks))
	for i, b := range blocks {
		wrappers[i] = BlockWrapper{Block: b}
	}
	return json.Marshal(wrappers)
}
