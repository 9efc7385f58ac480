package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/df07/go-raytracing-kernels/pkg/nurbs"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r2"
)

// errMalformedMessage is reported for websocket messages that are not JSON commands
var errMalformedMessage = errors.New("malformed message")

// CurveCommand is a single editing operation sent over a curve session.
// A message with no op and a curve replaces the whole curve.
type CurveCommand struct {
	Op    string           `json:"op"` // "set", "add", "move", "remove", "pick", "weight", "weightAll", "order", "step", "toggle", "clear"
	Curve *nurbs.CurveSpec `json:"curve,omitempty"`
	Index int              `json:"index,omitempty"`
	Point [2]float64       `json:"point"`
	Delta int              `json:"delta,omitempty"` // +1 or -1 for weight, order and step
}

// CurveResponse carries the evaluated curve and the editor state
type CurveResponse struct {
	SessionID string          `json:"sessionId,omitempty"`
	Points    [][2]float64    `json:"points"`
	Knots     []int           `json:"knots"`
	Curve     nurbs.CurveSpec `json:"curve"`
	ShowCurve bool            `json:"showCurve"`
	Picked    *int            `json:"picked,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// evaluateCurve builds the response for a curve; a configuration error is reported
// in Error alongside an empty point list
func evaluateCurve(c nurbs.Curve) CurveResponse {
	resp := CurveResponse{
		Points:    [][2]float64{},
		Knots:     []int{},
		Curve:     nurbs.SpecFromCurve(c),
		ShowCurve: true,
	}
	points, err := c.Evaluate()
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Points = nurbs.MarshalPoints(points)
	resp.Knots = c.Knots()
	return resp
}

// handleNurbs evaluates a posted CurveSpec
func (s *Server) handleNurbs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, http.StatusMethodNotAllowed, "POST a curve document")
		return
	}

	spec, err := nurbs.ParseSpec(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := evaluateCurve(spec.Curve())
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, resp)
}

// curveSession owns the editor of one websocket connection
type curveSession struct {
	id     string
	editor *nurbs.Editor
}

func newCurveSession() *curveSession {
	return &curveSession{id: uuid.NewString(), editor: nurbs.NewEditor()}
}

// apply runs one command against the editor and returns the resulting state
func (cs *curveSession) apply(cmd CurveCommand) CurveResponse {
	var picked *int
	var err error

	e := cs.editor
	point := r2.Vec{X: cmd.Point[0], Y: cmd.Point[1]}

	switch cmd.Op {
	case "", "set":
		if cmd.Curve == nil {
			err = errors.New("set requires a curve")
			break
		}
		e.Load(cmd.Curve.Curve())
	case "add":
		e.AddPoint(point)
	case "move":
		err = e.MovePoint(cmd.Index, point)
	case "remove":
		err = e.RemovePoint(cmd.Index)
	case "pick":
		if idx, ok := e.Pick(point); ok {
			picked = &idx
		}
	case "weight":
		if cmd.Delta < 0 {
			_, err = e.LowerWeight(cmd.Index)
		} else {
			_, err = e.RaiseWeight(cmd.Index)
		}
	case "weightAll":
		e.RaiseAllWeights()
	case "order":
		if cmd.Delta < 0 {
			e.OrderDown()
		} else {
			e.OrderUp()
		}
	case "step":
		if cmd.Delta < 0 {
			e.StepDown()
		} else {
			e.StepUp()
		}
	case "toggle":
		e.ToggleCurve()
	case "clear":
		e.Clear()
	default:
		err = fmt.Errorf("unknown op %q", cmd.Op)
	}

	resp := cs.state()
	resp.Picked = picked
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// state evaluates the editor's current curve
func (cs *curveSession) state() CurveResponse {
	resp := evaluateCurve(cs.editor.Curve())
	resp.SessionID = cs.id
	resp.ShowCurve = cs.editor.ShowCurve()
	if !resp.ShowCurve {
		resp.Points = [][2]float64{}
	}
	return resp
}

func wsRecv[T any](conn *websocket.Conn) (T, error) {
	var data T
	mtype, message, err := conn.ReadMessage()
	if err != nil {
		return data, err
	}
	if mtype != websocket.TextMessage {
		return data, fmt.Errorf("%w: unexpected websocket message type", errMalformedMessage)
	}
	if err := json.Unmarshal(message, &data); err != nil {
		return data, fmt.Errorf("%w: %v", errMalformedMessage, err)
	}
	return data, nil
}

func wsSend(conn *websocket.Conn, data any) error {
	message, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, message)
}

// handleNurbsSession runs an interactive curve editing session over a websocket
func (s *Server) handleNurbsSession(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Curve session upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	session := newCurveSession()
	log.Printf("Curve session %s opened", session.id)
	defer log.Printf("Curve session %s closed", session.id)

	if err := wsSend(conn, session.state()); err != nil {
		return
	}

	for {
		cmd, err := wsRecv[CurveCommand](conn)
		if errors.Is(err, errMalformedMessage) {
			resp := session.state()
			resp.Error = err.Error()
			if err := wsSend(conn, resp); err != nil {
				return
			}
			continue
		}
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("Curve session %s read error: %v", session.id, err)
			}
			return
		}

		if err := wsSend(conn, session.apply(cmd)); err != nil {
			return
		}
	}
}
