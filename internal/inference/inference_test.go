package inference

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate(t *testing.T) {
	tt := []struct {
		name   string
		status int
		rbody  string
		out    string
		err    error
		anyErr bool
	}{
		{
			name:   "success",
			status: http.StatusOK,
			rbody:  `[{"generated_text":"Do squats."}]`,
			out:    "Do squats.",
		},
		{
			name:   "empty array",
			status: http.StatusOK,
			rbody:  `[]`,
			err:    ErrEmptyResponse,
		},
		{
			name:   "blank text",
			status: http.StatusOK,
			rbody:  `[{"generated_text":"  "}]`,
			err:    ErrEmptyResponse,
		},
		{
			name:   "not an array",
			status: http.StatusOK,
			rbody:  `{"error":"loading"}`,
			anyErr: true,
		},
		{
			name:   "failed",
			status: http.StatusServiceUnavailable,
			rbody:  `{"error":"model is loading"}`,
			anyErr: true,
		},
	}

	for i := range tt {
		tc := tt[i]
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

				b, err := ioutil.ReadAll(r.Body)
				require.NoError(t, err)
				assert.JSONEq(t, `{"inputs":"how to grow?"}`, string(b))

				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.rbody))
			}))
			defer srv.Close()

			out, err := New(srv.URL, "token", srv.Client()).Generate(context.Background(), "how to grow?")
			switch {
			case tc.err != nil:
				require.ErrorIs(t, err, tc.err)
			case tc.anyErr:
				require.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tc.out, out)
			}
		})
	}
}
