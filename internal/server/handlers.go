package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/imspect/internal/imaging"
	"github.com/ironsheep/imspect/internal/session"
)

// errInvalidParams marks tool arguments that are malformed or out of range.
// Such failures are reported with code -32602 instead of -32000.
var errInvalidParams = errors.New("invalid params")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "session_list", "entry_convert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Malformed arguments return code -32602; any other tool failure returns
// code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	log := s.logger.WithField("tool", params.Name)
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		log.WithError(err).Debug("Tool failed")
		if errors.Is(err, errInvalidParams) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "session_list":
		return s.handleSessionList()
	case "session_sweep":
		return s.handleSessionSweep()

	// Entry queries
	case "entry_info":
		return s.handleEntryInfo(args)
	case "entry_pixels":
		return s.handleEntryPixels(args)
	case "entry_sample":
		return s.handleEntrySample(args)

	// Threshold
	case "entry_set_threshold":
		return s.handleEntrySetThreshold(args)

	// Conversions
	case "entry_conversions":
		return s.handleEntryConversions(args)
	case "entry_convert":
		return s.handleEntryConvert(args)
	case "entry_extract_channel":
		return s.handleEntryExtractChannel(args)

	// Lifecycle
	case "entry_remove":
		return s.handleEntryRemove(args)
	case "entry_export":
		return s.handleEntryExport(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments into v. Missing arguments decode as
// the zero value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	return nil
}

// === Result Types ===

// EntryInfo describes one session entry.
type EntryInfo struct {
	ID               session.ID  `json:"id"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	Channels         int         `json:"channels"`
	Threshold        string      `json:"threshold"`
	Cutoff           uint8       `json:"cutoff"`
	PendingRedraw    bool        `json:"pending_redraw"`
	MarkedForRemoval bool        `json:"marked_for_removal"`
	Origin           *OriginInfo `json:"origin,omitempty"`
}

// OriginInfo names the entry and operation a derived entry came from.
type OriginInfo struct {
	Parent    session.ID `json:"parent"`
	Operation string     `json:"operation"`
}

func entryInfo(e *session.Entry) EntryInfo {
	info := EntryInfo{
		ID:               e.ID,
		Width:            e.Image.Width(),
		Height:           e.Image.Height(),
		Channels:         e.Image.Channels(),
		Threshold:        e.Threshold.Kind.String(),
		Cutoff:           e.Threshold.Cutoff,
		PendingRedraw:    e.PendingRedraw,
		MarkedForRemoval: e.MarkedForRemoval,
	}
	if e.Origin != nil {
		info.Origin = &OriginInfo{Parent: e.Origin.Parent, Operation: e.Origin.Operation}
	}
	return info
}

// DeriveResult reports the outcome of a conversion or channel extraction.
type DeriveResult struct {
	Converted bool       `json:"converted"`
	Entry     *EntryInfo `json:"entry,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Source    session.ID `json:"source"`
}

// === Session Handlers ===

func (s *Server) handleSessionList() (interface{}, error) {
	entries := s.reg.Entries()
	infos := make([]EntryInfo, len(entries))
	for i := range entries {
		infos[i] = entryInfo(&entries[i])
	}
	return map[string]interface{}{
		"count":   len(infos),
		"entries": infos,
	}, nil
}

func (s *Server) handleSessionSweep() (interface{}, error) {
	removed := s.reg.Sweep()
	if removed == nil {
		removed = []session.ID{}
	}
	return map[string]interface{}{
		"removed":   removed,
		"remaining": s.reg.Len(),
	}, nil
}

// === Entry Query Handlers ===

type entryArgs struct {
	ID *session.ID `json:"id"`
}

func (a entryArgs) id() (session.ID, error) {
	if a.ID == nil {
		return 0, fmt.Errorf("%w: id is required", errInvalidParams)
	}
	return *a.ID, nil
}

func (s *Server) lookup(args json.RawMessage) (*session.Entry, error) {
	var a entryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := a.id()
	if err != nil {
		return nil, err
	}
	return s.reg.Get(id)
}

func (s *Server) handleEntryInfo(args json.RawMessage) (interface{}, error) {
	e, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	return entryInfo(e), nil
}

func (s *Server) handleEntryPixels(args json.RawMessage) (interface{}, error) {
	e, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	shown, err := s.reg.Display(e.ID)
	if err != nil {
		return nil, err
	}
	result, err := imaging.EncodePNG(shown)
	if err != nil {
		return nil, err
	}
	if err := s.reg.MarkDrawn(e.ID); err != nil {
		return nil, err
	}
	return result, nil
}

type entrySampleArgs struct {
	entryArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleEntrySample(args json.RawMessage) (interface{}, error) {
	var a entrySampleArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := a.id()
	if err != nil {
		return nil, err
	}
	e, err := s.reg.Get(id)
	if err != nil {
		return nil, err
	}
	samples, err := imaging.Sample(e.Image, a.X, a.Y)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	// []uint8 marshals as base64, so widen to ints for readable output.
	values := make([]int, len(samples))
	for i, v := range samples {
		values[i] = int(v)
	}
	return map[string]interface{}{
		"id":      id,
		"x":       a.X,
		"y":       a.Y,
		"samples": values,
	}, nil
}

// === Threshold Handlers ===

type entrySetThresholdArgs struct {
	entryArgs
	Kind   string `json:"kind"`
	Cutoff int    `json:"cutoff"`
}

func (s *Server) handleEntrySetThreshold(args json.RawMessage) (interface{}, error) {
	var a entrySetThresholdArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := a.id()
	if err != nil {
		return nil, err
	}
	kind, err := imaging.ParseThresholdKind(a.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}
	if a.Cutoff < 0 || a.Cutoff > 255 {
		return nil, fmt.Errorf("%w: cutoff %d outside 0-255", errInvalidParams, a.Cutoff)
	}

	settings := session.ThresholdSettings{Kind: kind, Cutoff: uint8(a.Cutoff)}
	if err := s.reg.SetThreshold(id, settings); err != nil {
		return nil, err
	}
	e, err := s.reg.Get(id)
	if err != nil {
		return nil, err
	}
	return entryInfo(e), nil
}

// === Conversion Handlers ===

func (s *Server) handleEntryConversions(args json.RawMessage) (interface{}, error) {
	e, err := s.lookup(args)
	if err != nil {
		return nil, err
	}
	available := imaging.Applicable(e.Image)
	names := make([]string, len(available))
	for i, c := range available {
		names[i] = string(c)
	}
	return map[string]interface{}{
		"id":          e.ID,
		"channels":    e.Image.Channels(),
		"conversions": names,
	}, nil
}

type entryConvertArgs struct {
	entryArgs
	Conversion string `json:"conversion"`
}

func (s *Server) handleEntryConvert(args json.RawMessage) (interface{}, error) {
	var a entryConvertArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := a.id()
	if err != nil {
		return nil, err
	}
	c, err := imaging.ParseConversion(a.Conversion)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidParams, err)
	}

	newID, ok, err := s.reg.Convert(id, c)
	if err != nil {
		return nil, err
	}
	return s.deriveResult(id, newID, ok, string(c))
}

type entryExtractChannelArgs struct {
	entryArgs
	Channel int `json:"channel"`
}

func (s *Server) handleEntryExtractChannel(args json.RawMessage) (interface{}, error) {
	var a entryExtractChannelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := a.id()
	if err != nil {
		return nil, err
	}
	if a.Channel < 0 || a.Channel > 2 {
		return nil, fmt.Errorf("%w: channel %d outside 0-2", errInvalidParams, a.Channel)
	}

	newID, ok, err := s.reg.ExtractChannel(id, a.Channel)
	if err != nil {
		return nil, err
	}
	return s.deriveResult(id, newID, ok, fmt.Sprintf("extract_channel_%d", a.Channel))
}

func (s *Server) deriveResult(src, newID session.ID, ok bool, op string) (interface{}, error) {
	if !ok {
		e, err := s.reg.Get(src)
		if err != nil {
			return nil, err
		}
		return &DeriveResult{
			Converted: false,
			Source:    src,
			Reason:    fmt.Sprintf("%s does not apply to %d-channel images", op, e.Image.Channels()),
		}, nil
	}
	e, err := s.reg.Get(newID)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"source":    src,
		"id":        newID,
		"operation": op,
	}).Debug("Derived entry")
	info := entryInfo(e)
	return &DeriveResult{Converted: true, Source: src, Entry: &info}, nil
}

// === Lifecycle Handlers ===

func (s *Server) handleEntryRemove(args json.RawMessage) (interface{}, error) {
	var a entryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := a.id()
	if err != nil {
		return nil, err
	}
	s.reg.MarkForRemoval(id)
	_, err = s.reg.Get(id)
	return map[string]interface{}{
		"id":     id,
		"marked": err == nil,
	}, nil
}

type entryExportArgs struct {
	entryArgs
	Path string `json:"path"`
}

func (s *Server) handleEntryExport(args json.RawMessage) (interface{}, error) {
	var a entryExportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	id, err := a.id()
	if err != nil {
		return nil, err
	}
	if a.Path == "" || !filepath.IsAbs(a.Path) {
		return nil, fmt.Errorf("%w: path must be absolute", errInvalidParams)
	}

	shown, err := s.reg.Display(id)
	if err != nil {
		return nil, err
	}
	if err := imaging.SavePNG(shown, a.Path); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"id": id, "path": a.Path}).Info("Exported entry")
	return map[string]interface{}{
		"id":       id,
		"path":     a.Path,
		"width":    shown.Width(),
		"height":   shown.Height(),
		"channels": shown.Channels(),
	}, nil
}
