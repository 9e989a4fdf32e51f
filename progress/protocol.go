package progress

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"
)

func init() {
	// Register types for gob encoding
	gob.Register(PassPayload{})
	gob.Register(ValuesPayload{})
	gob.Register(LossPayload{})
	gob.Register(Accuracy{})
}

// MessageType defines message types for the progress stream
type MessageType int

const (
	MsgPass MessageType = iota
	MsgValues
	MsgLoss
	MsgTrainingDone
	MsgAccuracy
	MsgEnd
	MsgError
)

// Message represents a message in the progress stream
type Message struct {
	Type    MessageType
	Payload interface{}
}

// PassPayload starts a pass
type PassPayload struct {
	N int
}

// ValuesPayload carries a labeled vector
type ValuesPayload struct {
	Label  string
	Values []float64
}

// LossPayload carries the smoothed loss
type LossPayload struct {
	Avg float64
}

// Protocol handles progress stream encoding
type Protocol struct {
	encoder *gob.Encoder
	decoder *gob.Decoder
}

// NewProtocol creates a new protocol handler
func NewProtocol(r io.Reader, w io.Writer) *Protocol {
	return &Protocol{
		encoder: gob.NewEncoder(w),
		decoder: gob.NewDecoder(r),
	}
}

// Send sends a message
func (p *Protocol) Send(msg *Message) error {
	return p.encoder.Encode(msg)
}

// Receive receives a message
func (p *Protocol) Receive() (*Message, error) {
	var msg Message
	if err := p.decoder.Decode(&msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Encoder is a Sink that writes every report as a gob message.
type Encoder struct {
	p *Protocol
}

// NewEncoder returns a Sink encoding to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{p: NewProtocol(nil, w)}
}

func (e *Encoder) Pass(n int) error {
	return e.p.Send(&Message{Type: MsgPass, Payload: PassPayload{N: n}})
}

func (e *Encoder) Values(label string, v []float64) error {
	return e.p.Send(&Message{Type: MsgValues, Payload: ValuesPayload{Label: label, Values: v}})
}

func (e *Encoder) Loss(avg float64) error {
	return e.p.Send(&Message{Type: MsgLoss, Payload: LossPayload{Avg: avg}})
}

func (e *Encoder) TrainingDone() error {
	return e.p.Send(&Message{Type: MsgTrainingDone})
}

func (e *Encoder) Accuracy(a Accuracy) error {
	return e.p.Send(&Message{Type: MsgAccuracy, Payload: a})
}

// SendError sends an error message
func (e *Encoder) SendError(err error) error {
	return e.p.Send(&Message{Type: MsgError, Payload: err.Error()})
}

// Close signals the end of the stream
func (e *Encoder) Close() error {
	return e.p.Send(&Message{Type: MsgEnd})
}

// Replay decodes a progress stream from r and forwards it to sink until an
// end message or EOF.
func Replay(r io.Reader, sink Sink) error {
	p := NewProtocol(r, nil)
	for {
		msg, err := p.Receive()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "decoding progress")
		}
		if err := dispatch(msg, sink); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func dispatch(msg *Message, sink Sink) error {
	switch msg.Type {
	case MsgPass:
		pl, ok := msg.Payload.(PassPayload)
		if !ok {
			return errors.Errorf("invalid pass payload %T", msg.Payload)
		}
		return sink.Pass(pl.N)
	case MsgValues:
		pl, ok := msg.Payload.(ValuesPayload)
		if !ok {
			return errors.Errorf("invalid values payload %T", msg.Payload)
		}
		return sink.Values(pl.Label, pl.Values)
	case MsgLoss:
		pl, ok := msg.Payload.(LossPayload)
		if !ok {
			return errors.Errorf("invalid loss payload %T", msg.Payload)
		}
		return sink.Loss(pl.Avg)
	case MsgTrainingDone:
		return sink.TrainingDone()
	case MsgAccuracy:
		pl, ok := msg.Payload.(Accuracy)
		if !ok {
			return errors.Errorf("invalid accuracy payload %T", msg.Payload)
		}
		return sink.Accuracy(pl)
	case MsgEnd:
		return io.EOF
	case MsgError:
		return errors.Errorf("remote error: %v", msg.Payload)
	}
	return errors.Errorf("unknown message type %d", msg.Type)
}
