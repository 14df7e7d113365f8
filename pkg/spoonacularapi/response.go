package spoonacularapi

import (
	"io"
	"math"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// SearchResponse is the decoded body of a 200 complexSearch response.
// Recipe records are kept as raw JSON and never interpreted.
type SearchResponse struct {
	Offset       int
	Number       int
	TotalResults int
	Results      []jx.Raw
}

func decodeSearchResponse(body []byte) (*SearchResponse, error) {
	resp := &SearchResponse{Results: []jx.Raw{}}
	d := jx.DecodeBytes(body)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "offset":
			resp.Offset, err = decodeOptInt(d)
		case "number":
			resp.Number, err = decodeOptInt(d)
		case "totalResults":
			resp.TotalResults, err = decodeOptInt(d)
		case "results":
			resp.Results, err = decodeResults(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode field %q", key)
		}
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode search response")
	}
	if err := d.Skip(); err != io.EOF {
		return nil, errors.New("decode search response: unexpected data after object")
	}
	return resp, nil
}

// decodeOptInt reads an integer field. Null is 0; integral floats such as
// 5.0 are accepted.
func decodeOptInt(d *jx.Decoder) (int, error) {
	switch d.Next() {
	case jx.Null:
		return 0, d.Null()
	case jx.Number:
	default:
		return 0, errors.Errorf("unexpected %s", d.Next())
	}
	num, err := d.Num()
	if err != nil {
		return 0, err
	}
	if num.IsInt() {
		n, err := num.Int64()
		return int(n), err
	}
	f, err := num.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) || math.Abs(f) >= math.MaxInt64 {
		return 0, errors.Errorf("non-integer value %s", num)
	}
	return int(f), nil
}

func decodeResults(d *jx.Decoder) ([]jx.Raw, error) {
	results := []jx.Raw{}
	if d.Next() == jx.Null {
		return results, d.Null()
	}
	err := d.Arr(func(d *jx.Decoder) error {
		raw, err := d.RawAppend(nil)
		if err != nil {
			return err
		}
		results = append(results, raw)
		return nil
	})
	return results, err
}

// SearchResult is the uniform outcome of a search. Exactly one form is
// populated: Success with the pagination echo and results, or a failure
// with Error (classifier) and Message (detail).
type SearchResult struct {
	Success      bool
	Offset       int
	Number       int
	TotalResults int
	Results      []jx.Raw

	Error   string
	Message string
}

// SuccessResult builds the success form from a decoded response.
func SuccessResult(resp *SearchResponse) SearchResult {
	results := resp.Results
	if results == nil {
		results = []jx.Raw{}
	}
	return SearchResult{
		Success:      true,
		Offset:       resp.Offset,
		Number:       resp.Number,
		TotalResults: resp.TotalResults,
		Results:      results,
	}
}

// FailureResult classifies err into the failure form.
func FailureResult(err error) SearchResult {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return SearchResult{Error: remote.Label(), Message: remote.Body}
	}
	var transport *TransportError
	if errors.As(err, &transport) {
		msg := ""
		if transport.Err != nil {
			msg = transport.Err.Error()
		}
		return SearchResult{Error: transport.Label(), Message: msg}
	}
	return SearchResult{Error: transportErrorLabel, Message: err.Error()}
}

// Encode writes the result as a JSON object.
func (r SearchResult) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(r.Success)
	if r.Success {
		e.FieldStart("offset")
		e.Int(r.Offset)
		e.FieldStart("number")
		e.Int(r.Number)
		e.FieldStart("totalResults")
		e.Int(r.TotalResults)
		e.FieldStart("results")
		e.ArrStart()
		for _, rec := range r.Results {
			e.Raw(rec)
		}
		e.ArrEnd()
	} else {
		e.FieldStart("error")
		e.Str(r.Error)
		e.FieldStart("message")
		e.Str(r.Message)
	}
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (r SearchResult) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	r.Encode(&e)
	return e.Bytes(), nil
}
