package pipeline

import (
	"context"

	"github.com/rs/zerolog"
)

// Step is a single stage of the transaction pipeline.
type Step interface {
	Execute(ctx context.Context, state *State) error
}

// State holds the shared state across all pipeline steps for one invocation.
type State struct {
	Image    []byte
	MIMEType string
	Note     string

	RawText string
	Fields  map[string]any
	Record  TransactionRecord
}

// ExtractStep sends the image to the vision model and captures the raw text.
type ExtractStep struct {
	Extractor Extractor
}

func (s *ExtractStep) Execute(ctx context.Context, state *State) error {
	rawText, err := s.Extractor.Extract(ctx, state.Image, state.MIMEType)
	if err != nil {
		return err
	}
	state.RawText = rawText
	return nil
}

// ParseStep recovers the embedded JSON object from the raw model text.
type ParseStep struct{}

func (s *ParseStep) Execute(ctx context.Context, state *State) error {
	fields, err := parseModelOutput(state.RawText)
	if err != nil {
		return err
	}
	state.Fields = fields
	return nil
}

// NormalizeStep maps parsed fields onto the canonical record shape.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *State) error {
	state.Record = normalizeRecord(state.Fields, state.Note)
	return nil
}

// AppendStep writes the record plus the verbatim model output to the ledger.
type AppendStep struct {
	Appender Appender
}

func (s *AppendStep) Execute(ctx context.Context, state *State) error {
	return s.Appender.Append(ctx, state.Record, state.RawText)
}

// Pipeline turns an image plus a caller note into a ledger row. It holds the
// two long-lived client handles for the life of the process and is safe for
// concurrent invocations; each Process call is synchronous and blocking with
// no internal retries or queuing.
type Pipeline struct {
	extractor Extractor
	appender  Appender
	archive   Archiver
	log       zerolog.Logger
}

// New creates a pipeline. extractor or appender may be nil when the
// corresponding client failed to initialize at startup; Process then fails
// fast with a configuration error instead of making external calls.
func New(extractor Extractor, appender Appender, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		appender:  appender,
		log:       log,
	}
}

// WithArchive enables best-effort archival of inbound images.
func (p *Pipeline) WithArchive(archive Archiver) *Pipeline {
	p.archive = archive
	return p
}

// Process runs the fixed chain extract → parse → normalize → append. Any
// step failure short-circuits the chain and is returned as a *Failure; steps
// before append leave the ledger untouched. An append failure after a
// successful extraction means the computed record is lost unless the caller
// re-submits.
func (p *Pipeline) Process(ctx context.Context, image []byte, mimeType, note string) (TransactionRecord, error) {
	if p.extractor == nil {
		return TransactionRecord{}, &Failure{
			Kind:   KindConfigurationError,
			Detail: "extraction client not initialized",
		}
	}
	if p.appender == nil {
		return TransactionRecord{}, &Failure{
			Kind:   KindConfigurationError,
			Detail: "ledger client not initialized",
		}
	}

	if p.archive != nil {
		if uri, err := p.archive.Store(ctx, image, mimeType); err != nil {
			p.log.Warn().Err(err).Msg("Image archival failed")
		} else {
			p.log.Info().Str("uri", uri).Msg("Image archived")
		}
	}

	state := &State{
		Image:    image,
		MIMEType: mimeType,
		Note:     note,
	}

	steps := []Step{
		&ExtractStep{Extractor: p.extractor},
		&ParseStep{},
		&NormalizeStep{},
		&AppendStep{Appender: p.appender},
	}

	for _, step := range steps {
		if err := step.Execute(ctx, state); err != nil {
			if f, ok := AsFailure(err); ok {
				p.log.Error().
					Str("kind", string(f.Kind)).
					Str("detail", f.Detail).
					Msg("Pipeline failed")
				return TransactionRecord{}, f
			}
			p.log.Error().Err(err).Msg("Pipeline failed")
			return TransactionRecord{}, err
		}
	}

	p.log.Info().
		Str("amount", state.Record.Amount).
		Str("platform", state.Record.Platform).
		Str("date", state.Record.Date).
		Msg("Transaction logged")

	return state.Record, nil
}
