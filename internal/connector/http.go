package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// getJSON fetches rawURL and decodes the body into out. It reports
// success; every failure mode (request build, transport, non-200,
// malformed body) is logged and collapsed into false so adapters can
// degrade to their empty/nil contract.
func getJSON(ctx context.Context, client *http.Client, rawURL string, out any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Printf("[connector] build request %s: %v", rawURL, err)
		return false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[connector] get %s: %v", rawURL, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Printf("[connector] get %s: status %d", rawURL, resp.StatusCode)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[connector] decode %s: %v", rawURL, err)
		return false
	}
	return true
}

// postJSON posts body as JSON to rawURL and decodes the response into
// out, with the same collapse-to-false failure contract as getJSON.
func postJSON(ctx context.Context, client *http.Client, rawURL string, body, out any) bool {
	b, err := json.Marshal(body)
	if err != nil {
		log.Printf("[connector] marshal body for %s: %v", rawURL, err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(b))
	if err != nil {
		log.Printf("[connector] build request %s: %v", rawURL, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[connector] post %s: %v", rawURL, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Printf("[connector] post %s: status %d", rawURL, resp.StatusCode)
		return false
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Printf("[connector] decode %s: %v", rawURL, err)
		return false
	}
	return true
}
