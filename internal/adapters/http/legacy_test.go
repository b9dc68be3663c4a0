package http_test

import (
	"fmt"
	"testing"
)

func TestLegacyKeys(t *testing.T) {
	env := setupApp(t)
	code, data, headers := env.do(t, "GET", "/get_keys", "", nil)
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
	got := decode[map[string]string](t, data)
	if got["AMap_API_KEY"] != "test-key" || got["AMap_SECURITY_KEY"] != "test-code" {
		t.Errorf("unexpected keys %v", got)
	}
	if headers["Deprecation"] != "true" || headers["Sunset"] == "" {
		t.Errorf("missing deprecation headers: %v", headers)
	}
	if headers["Link"] != `</api/map-config>; rel="successor-version"` {
		t.Errorf("Link = %q", headers["Link"])
	}
}

type legacyMarker struct {
	ID       int64      `json:"id"`
	Position [2]float64 `json:"position"`
	Image    *string    `json:"image"`
}

func TestLegacyAddListDelete(t *testing.T) {
	env := setupApp(t)

	code, data := env.doJSON(t, "POST", "/add_marker",
		`{"position":[116.397428,39.90923],"image":"//a.amap.com/icon.png"}`)
	if code != 200 {
		t.Fatalf("add: %d %s", code, data)
	}
	added := decode[struct {
		Success bool         `json:"success"`
		Marker  legacyMarker `json:"marker"`
	}](t, data)
	if !added.Success || added.Marker.Position != [2]float64{116.397428, 39.90923} {
		t.Errorf("unexpected response %s", data)
	}

	// Stored as a regular marker with lat/lng swapped back.
	m, err := env.markers.GetByID(t.Context(), added.Marker.ID)
	if err != nil {
		t.Fatal(err)
	}
	if m.Latitude != 39.90923 || m.Longitude != 116.397428 || m.Title != "Untitled marker" {
		t.Errorf("unexpected stored marker %+v", m)
	}

	code, data, headers := env.do(t, "GET", "/get_markers", "", nil)
	if code != 200 {
		t.Fatalf("list: %d", code)
	}
	if headers["Deprecation"] != "true" {
		t.Error("missing Deprecation header")
	}
	list := decode[struct {
		Markers []legacyMarker `json:"markers"`
	}](t, data)
	if len(list.Markers) != 1 || list.Markers[0].Image == nil || *list.Markers[0].Image != "//a.amap.com/icon.png" {
		t.Errorf("unexpected list %s", data)
	}

	code, _, headers = env.do(t, "DELETE", fmt.Sprintf("/delete_marker/%d", added.Marker.ID), "", nil)
	if code != 200 {
		t.Fatalf("delete: %d", code)
	}
	if headers["Deprecation"] != "true" {
		t.Error("missing Deprecation header on parameterised route")
	}
	if n := env.markerCount(t); n != 0 {
		t.Errorf("count = %d", n)
	}

	code, _, _ = env.do(t, "DELETE", fmt.Sprintf("/delete_marker/%d", added.Marker.ID), "", nil)
	if code != 404 {
		t.Errorf("second delete: expected 404, got %d", code)
	}
}

func TestLegacyAdd_Invalid(t *testing.T) {
	env := setupApp(t)
	for _, body := range []string{
		`{"image":"x"}`,
		`{"position":[1],"image":"x"}`,
		`{"position":[1,2]}`,
	} {
		code, data := env.doJSON(t, "POST", "/add_marker", body)
		if code != 400 {
			t.Errorf("%s: expected 400, got %d: %s", body, code, data)
		}
	}
	if n := env.markerCount(t); n != 0 {
		t.Errorf("count = %d", n)
	}
}

func TestCurrentRoutesNotDeprecated(t *testing.T) {
	env := setupApp(t)
	_, _, headers := env.do(t, "GET", "/markers", "", nil)
	if _, ok := headers["Deprecation"]; ok {
		t.Error("/markers should not carry a Deprecation header")
	}
}
