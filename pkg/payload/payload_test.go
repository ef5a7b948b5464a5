package payload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleAvatar = `{
  "id": "a1",
  "created_at": "2024-05-01T10:00:00",
  "vertices": [[0,0,0],[1,0,0],[0,1,0]],
  "faces": [[0,1,2]],
  "textures": {"diffuse": "aGVsbG8="},
  "blend_shapes": {"smile": [0.1, 0.2]},
  "animations": [
    {"name": "blink", "duration": 0.3, "loop": true,
     "keyframes": [{"time": 0, "eye_scale": 1}, {"time": 0.15, "eye_scale": 0.1, "head_rotation": [1,2,3]}]}
  ],
  "materials": {"skin": {"albedo": [0.8, 0.7, 0.6, 1.0], "roughness": 0.7}},
  "lighting_params": {"ambient_intensity": 0.2},
  "source_image_hash": "abc",
  "generation_params": {"method": "fallback"}
}`

func TestDecodeBareAvatar(t *testing.T) {
	a, err := Decode(strings.NewReader(sampleAvatar))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if a.ID != "a1" {
		t.Errorf("ID = %q, want a1", a.ID)
	}
	if len(a.Vertices) != 3 || len(a.Faces) != 1 {
		t.Errorf("got %d vertices / %d faces, want 3 / 1", len(a.Vertices), len(a.Faces))
	}
	if len(a.Animations) != 1 || len(a.Animations[0].Keyframes) != 2 {
		t.Fatalf("unexpected animations: %+v", a.Animations)
	}
	kf := a.Animations[0].Keyframes[1]
	if kf.EyeScale == nil || *kf.EyeScale != 0.1 {
		t.Errorf("eye_scale = %v, want 0.1", kf.EyeScale)
	}
	if kf.HeadRotation == nil || kf.HeadRotation[2] != 3 {
		t.Errorf("head_rotation = %v, want [1 2 3]", kf.HeadRotation)
	}
	if a.Animations[0].Keyframes[0].HeadRotation != nil {
		t.Error("absent head_rotation should decode as nil")
	}
	if a.LightingParams["ambient_intensity"] != 0.2 {
		t.Errorf("lighting ambient = %v, want 0.2", a.LightingParams["ambient_intensity"])
	}
}

func TestDecodeStatusEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "completed",
			body: `{"process_id":"p1","status":"completed","progress":100,"message":"ok","avatar_data":` + sampleAvatar + `}`,
		},
		{
			name:    "processing",
			body:    `{"process_id":"p1","status":"processing","progress":40,"message":"working"}`,
			wantErr: true,
		},
		{
			name:    "failed",
			body:    `{"process_id":"p1","status":"failed","progress":0,"message":"no face"}`,
			wantErr: true,
		},
		{
			name:    "completed without data",
			body:    `{"process_id":"p1","status":"completed","progress":100,"message":"ok"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Decode(strings.NewReader(tt.body))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if a.ID != "a1" {
				t.Errorf("ID = %q, want a1", a.ID)
			}
		})
	}
}

func TestDecodeResponseClampsProgress(t *testing.T) {
	resp, err := DecodeResponse(strings.NewReader(`{"process_id":"p","status":"processing","progress":140}`))
	if err != nil {
		t.Fatalf("DecodeResponse() error: %v", err)
	}
	if resp.Progress != 100 {
		t.Errorf("Progress = %d, want 100", resp.Progress)
	}
	if resp.Done() {
		t.Error("processing response should not be done")
	}
}

func TestDecodeEyeScalePair(t *testing.T) {
	body := `{"id": "b", "vertices": [], "faces": [], "animations": [
	  {"name": "blink", "duration": 0.3, "loop": false, "keyframes": [
	    {"time": 0.0, "eye_scale": [1.0, 1.0]},
	    {"time": 0.1, "eye_scale": [1.0, 0.1]},
	    {"time": 0.3, "eye_scale": [1.0, 1.0]}
	  ]}
	]}`
	a, err := Decode(strings.NewReader(body))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(a.Animations) != 1 || len(a.Animations[0].Keyframes) != 3 {
		t.Fatalf("unexpected animations: %+v", a.Animations)
	}
	want := []float32{1, 0.1, 1}
	for i, kf := range a.Animations[0].Keyframes {
		if kf.EyeScale == nil || *kf.EyeScale != want[i] {
			t.Errorf("keyframe %d eye_scale = %v, want %v", i, kf.EyeScale, want[i])
		}
	}
	if got := a.Animations[0].Keyframes[1].Time; got != 0.1 {
		t.Errorf("keyframe 1 time = %v, want 0.1", got)
	}
}

func TestDecodeEyeScaleRejectsBadShape(t *testing.T) {
	tests := []string{`"wide"`, `[]`, `[1, 2, 3]`, `{"y": 1}`}
	for _, eye := range tests {
		body := `{"animations": [{"name": "x", "duration": 1, "keyframes": [{"time": 0, "eye_scale": ` + eye + `}]}]}`
		if _, err := Decode(strings.NewReader(body)); err == nil {
			t.Errorf("eye_scale %s: expected error", eye)
		}
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := Decode(strings.NewReader(`{"vertices": [[0,0`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "avatar.json")
	if err := os.WriteFile(path, []byte(sampleAvatar), 0644); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}

	a, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error: %v", err)
	}
	if a.SourceImageHash != "abc" {
		t.Errorf("SourceImageHash = %q, want abc", a.SourceImageHash)
	}

	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
