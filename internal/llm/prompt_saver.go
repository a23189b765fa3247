package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// PromptSaver is a PromptHook that appends every prompt, its input and the
// raw response (or error) to <Dir>/<phase>.txt.
type PromptSaver struct {
	Dir string

	mu sync.Mutex
}

func (p *PromptSaver) Before(ctx context.Context, phase, prompt string, input any) {
	var buf bytes.Buffer
	buf.WriteString("==== ")
	buf.WriteString(time.Now().Format(time.RFC3339))
	buf.WriteString(" ====\n")
	buf.WriteString(prompt)
	if input != nil {
		buf.WriteString("\n\n[INPUT JSON]\n")
		jb, _ := json.MarshalIndent(input, "", "  ")
		buf.Write(jb)
	}
	buf.WriteString("\n\n")
	p.append(phase, buf.Bytes())
}

func (p *PromptSaver) After(ctx context.Context, phase string, raw json.RawMessage, err error) {
	var buf bytes.Buffer
	buf.WriteString("[RESPONSE]\n")
	if err != nil {
		buf.WriteString("ERROR: " + err.Error())
	} else {
		buf.Write(raw)
	}
	buf.WriteString("\n\n")
	p.append(phase, buf.Bytes())
}

func (p *PromptSaver) append(phase string, b []byte) {
	if phase == "" {
		phase = "unknown"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(filepath.Join(p.Dir, phase+".txt"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	_, _ = f.Write(b)
	_ = f.Close()
}
