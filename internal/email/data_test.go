package email

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestData_UnmarshalJSON_PreservesOrder(t *testing.T) {
	t.Parallel()

	var req Request
	body := `{"recipient":"a@b.com","subject":"Hi","data":{"zeta":"1","alpha":"2","mid":"3"}}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := req.Data.Fields()
	want := []string{"zeta", "alpha", "mid"}
	if len(fields) != len(want) {
		t.Fatalf("field count: got %d, want %d", len(fields), len(want))
	}
	for i, key := range want {
		if fields[i].Key != key {
			t.Errorf("fields[%d].Key: got %q, want %q", i, fields[i].Key, key)
		}
	}
}

func TestData_UnmarshalJSON_DuplicateKeys(t *testing.T) {
	t.Parallel()

	var d Data
	if err := json.Unmarshal([]byte(`{"a":"first","b":"x","a":"last"}`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := d.Fields()
	if len(fields) != 2 {
		t.Fatalf("field count: got %d, want 2", len(fields))
	}
	if fields[0].Key != "a" || fields[0].Value != "last" {
		t.Errorf("fields[0]: got %v, want a=last", fields[0])
	}
	if fields[1].Key != "b" {
		t.Errorf("fields[1].Key: got %q, want %q", fields[1].Key, "b")
	}
}

func TestData_UnmarshalJSON_KeepsNumberLiteral(t *testing.T) {
	t.Parallel()

	var d Data
	if err := json.Unmarshal([]byte(`{"n":42,"ok":true,"nothing":null}`), &d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := d.Fields()
	if n, ok := fields[0].Value.(json.Number); !ok || n.String() != "42" {
		t.Errorf("n: got %#v, want json.Number(42)", fields[0].Value)
	}
	if fields[1].Value != true {
		t.Errorf("ok: got %#v, want true", fields[1].Value)
	}
	if fields[2].Value != nil {
		t.Errorf("nothing: got %#v, want nil", fields[2].Value)
	}
}

func TestData_UnmarshalJSON_RejectsNonObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "string", body: `"abc"`},
		{name: "array", body: `["a","b"]`},
		{name: "number", body: `12`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var d Data
			err := json.Unmarshal([]byte(tt.body), &d)
			if !errors.Is(err, ErrDataNotObject) {
				t.Errorf("error: got %v, want %v", err, ErrDataNotObject)
			}
		})
	}
}

func TestRequest_NullDataIsAbsent(t *testing.T) {
	t.Parallel()

	var req Request
	if err := json.Unmarshal([]byte(`{"recipient":"a@b.com","subject":"Hi","data":null}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Data != nil {
		t.Errorf("Data: got %v, want nil", req.Data)
	}
	if req.Data.Len() != 0 {
		t.Errorf("Len(): got %d, want 0", req.Data.Len())
	}
}

func TestData_MarshalJSON_RoundTripsOrder(t *testing.T) {
	t.Parallel()

	d := NewData(Field{Key: "b", Value: "2"}, Field{Key: "a", Value: "1"})
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := string(out), `{"b":"2","a":"1"}`; got != want {
		t.Errorf("MarshalJSON: got %s, want %s", got, want)
	}
}
