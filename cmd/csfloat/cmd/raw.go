package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/csfloat-tracker/internal/csfloat"
)

func rawCmd() *cobra.Command {
	var (
		params []string
		data   string
	)

	cmd := &cobra.Command{
		Use:   "raw <GET|POST|DELETE> <path>",
		Short: "Send a request and print the undecoded JSON response",
		Long: "Sends an arbitrary request relative to the API root through the same\n" +
			"pacing and error classification as every other command, and prints\n" +
			"the response body as JSON without decoding it into records.",
		Example: `  csfloat raw GET /listings --param limit=1 --param sort_by=most_recent
  csfloat raw POST /buy-orders/similar-orders --param limit=3 \
    --data '{"market_hash_name":"AK-47 | Redline (Field-Tested)"}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := buildRawRequest(args[0], args[1], params, data)
			if err != nil {
				return err
			}

			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()

			raw, err := c.Raw(cmd.Context(), req)
			if err != nil {
				return err
			}
			return outputJSON(raw)
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringVar(&data, "data", "", "JSON request body")
	return cmd
}

func buildRawRequest(method, path string, params []string, data string) (csfloat.Request, error) {
	req := csfloat.Request{
		Operation: "raw",
		Method:    strings.ToUpper(method),
		Path:      "/" + strings.TrimLeft(path, "/"),
	}
	if err := req.Validate(); err != nil {
		return csfloat.Request{}, err
	}

	if len(params) > 0 {
		req.Query = url.Values{}
		for _, p := range params {
			k, v, ok := strings.Cut(p, "=")
			if !ok || k == "" {
				return csfloat.Request{}, fmt.Errorf("invalid --param %q: want key=value", p)
			}
			req.Query.Add(k, v)
		}
	}

	if data != "" {
		if !json.Valid([]byte(data)) {
			return csfloat.Request{}, fmt.Errorf("--data is not valid JSON")
		}
		req.Body = json.RawMessage(data)
	}
	return req, nil
}
