package logger

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette is one terminal color theme
type palette struct {
	fg       string
	time     string
	accent   string
	accent2  string
	name     string
	number   string
	yellow   string
	red      string
	redBg    string
	yellowBg string
}

// Gruvbox Dark color palette (warm, muted)
var gruvbox = palette{
	fg:       "\x1b[38;5;223m",
	time:     "\x1b[38;5;108m",
	accent:   "\x1b[38;5;208m",
	accent2:  "\x1b[38;5;214m",
	name:     "\x1b[38;5;109m",
	number:   "\x1b[38;5;175m",
	yellow:   "\x1b[38;5;214m",
	red:      "\x1b[38;5;167m",
	redBg:    "\x1b[48;5;88m",
	yellowBg: "\x1b[48;5;58m",
}

// Everforest Dark color palette (natural forest greens)
var everforest = palette{
	fg:       "\x1b[38;5;223m",
	time:     "\x1b[38;5;107m",
	accent:   "\x1b[38;5;108m",
	accent2:  "\x1b[38;5;208m",
	name:     "\x1b[38;5;109m",
	number:   "\x1b[38;5;108m",
	yellow:   "\x1b[38;5;179m",
	red:      "\x1b[38;5;167m",
	redBg:    "\x1b[48;5;52m",
	yellowBg: "\x1b[48;5;58m",
}

// Current active theme
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

// colorComponent hashes the component name for a stable color per component
func colorComponent(name string) string {
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	if hash%2 == 0 {
		return colors().accent
	}
	return colors().accent2
}

// backtickPattern matches `Quoted` node names in messages
var backtickPattern = regexp.MustCompile("`([^`]+)`")

// colorizeMessage highlights `quoted` node names inside a message
func colorizeMessage(msg string) string {
	p := colors()
	highlighted := backtickPattern.ReplaceAllString(msg, colorReset+p.name+"$1"+colorReset+p.fg)
	return p.fg + highlighted + colorReset
}

// minimalEncoder implements a calm, compact console encoder with theme support
// Format: "13:04:35  ir.builder  hoisted inline schema  Fill_color (fill.json)"
type minimalEncoder struct {
	zapcore.Encoder // Embed a base encoder for field serialization
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	return &minimalEncoder{Encoder: enc.Encoder.Clone()}
}

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	final := buffer.NewPool().Get()

	final.AppendString(colors().time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only show for non-info levels
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(ent.LoggerName)
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(colorizeMessage(ent.Message))

	if len(fields) > 0 {
		if values := extractFieldValues(fields); values != "" {
			final.AppendString("  ")
			final.AppendString(values)
		}
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for non-info levels
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.DebugLevel:
		return p.name + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + p.yellowBg + p.yellow + "WARN" + colorReset
	default:
		return colorBold + p.redBg + p.red + level.CapitalString() + colorReset
	}
}

// getFieldValue extracts the value from a zap field, handling different field types
func getFieldValue(field zapcore.Field) string {
	switch field.Type {
	case zapcore.StringType:
		return field.String
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return fmt.Sprintf("%d", field.Integer)
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(field.Integer)))
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1)
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return err.Error()
		}
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface)
	}
	return ""
}

// extractFieldValues renders structured fields compactly.
// Input: {"node": "Fill", "file": "fill.json", "duration_ms": 3}
// Output: "Fill (fill.json) 3ms"
func extractFieldValues(fields []zapcore.Field) string {
	p := colors()
	var values []string
	var file string

	for _, field := range fields {
		val := getFieldValue(field)
		if val == "" {
			continue
		}
		switch field.Key {
		case FieldNode, FieldArtifact:
			values = append(values, p.name+val+colorReset)
		case FieldFile, FieldPath:
			file = val
		case FieldDurationMS:
			values = append(values, p.number+val+colorReset+"ms")
		case FieldCount:
			values = append(values, p.number+val+colorReset+" nodes")
		default:
			values = append(values, p.fg+field.Key+"="+colorReset+val)
		}
	}

	if file != "" {
		values = append(values, p.fg+"("+file+")"+colorReset)
	}

	return strings.Join(values, " ")
}
