package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

// Thin wrappers over the JSON API. Errors are returned, not logged, so
// each caller decides what the view does about them.

func apiGet(url string, out any) error {
	resp, err := http.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiSend(method, url string, in, out any) error {
	var body bytes.Buffer
	if in != nil {
		if err := json.NewEncoder(&body).Encode(in); err != nil {
			return err
		}
	}
	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiPost(url string, in, out any) error {
	return apiSend(http.MethodPost, url, in, out)
}

func apiPut(url string, in, out any) error {
	return apiSend(http.MethodPut, url, in, out)
}

func apiDelete(url string) error {
	return apiSend(http.MethodDelete, url, nil, nil)
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Error != "" {
		return fmt.Errorf("%s", body.Error)
	}
	return fmt.Errorf("request failed: %s", resp.Status)
}
