package application

import (
	"context"
	"os"
	"testing"

	"github.com/devbush/vid2brief/internal/domain"
)

type fakeAcquirer struct {
	path    string
	err     error
	calls   int
	destDir string
}

func (a *fakeAcquirer) AcquireMedia(ctx context.Context, videoID, destDir string) (string, error) {
	a.calls++
	a.destDir = destDir
	if a.err != nil {
		return "", a.err
	}
	return a.path, nil
}

func (a *fakeAcquirer) IsAvailable() bool { return true }

type fakeExtractor struct {
	path  string
	err   error
	calls int
}

func (e *fakeExtractor) ExtractAudio(ctx context.Context, mediaPath, destDir string) (string, error) {
	e.calls++
	if e.err != nil {
		return "", e.err
	}
	return e.path, nil
}

func (e *fakeExtractor) IsAvailable() bool { return true }

type fakeSpeech struct {
	text       string
	err        error
	configured bool
	calls      int
}

func (s *fakeSpeech) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *fakeSpeech) Configured() bool { return s.configured }

func TestPipeline_Success(t *testing.T) {
	acquirer := &fakeAcquirer{path: "/tmp/x/video.mp4"}
	extractor := &fakeExtractor{path: "/tmp/x/audio.mp3"}
	speech := &fakeSpeech{text: "transcribed speech", configured: true}

	p := NewTranscriptionPipeline(acquirer, extractor, speech, t.TempDir(), nil)
	out := p.Run(context.Background(), "X1")

	if !out.OK {
		t.Fatalf("outcome not OK: stage=%v kind=%v", out.Stage, out.Failure)
	}
	if out.Text != "transcribed speech" {
		t.Errorf("Text = %q", out.Text)
	}
	if out.VideoID != "X1" {
		t.Errorf("VideoID = %q, want X1", out.VideoID)
	}
}

func TestPipeline_UnconfiguredSpeech_NoDownload(t *testing.T) {
	acquirer := &fakeAcquirer{path: "/tmp/x/video.mp4"}
	extractor := &fakeExtractor{}
	speech := &fakeSpeech{configured: false}

	p := NewTranscriptionPipeline(acquirer, extractor, speech, t.TempDir(), nil)
	out := p.Run(context.Background(), "X1")

	if out.OK {
		t.Fatal("outcome OK without speech capability")
	}
	if out.Failure != domain.FailCapabilityUnavailable {
		t.Errorf("Failure = %v, want FailCapabilityUnavailable", out.Failure)
	}
	if acquirer.calls != 0 {
		t.Errorf("download attempted %d times with no recognizer, want 0", acquirer.calls)
	}
}

func TestPipeline_NilSpeech_NoDownload(t *testing.T) {
	acquirer := &fakeAcquirer{}
	p := NewTranscriptionPipeline(acquirer, &fakeExtractor{}, nil, t.TempDir(), nil)
	out := p.Run(context.Background(), "X1")

	if out.Failure != domain.FailCapabilityUnavailable {
		t.Errorf("Failure = %v, want FailCapabilityUnavailable", out.Failure)
	}
	if acquirer.calls != 0 {
		t.Error("download attempted with nil recognizer")
	}
}

func TestPipeline_DownloadFailure_StopsEarly(t *testing.T) {
	acquirer := &fakeAcquirer{err: domain.ErrAuthRequired}
	extractor := &fakeExtractor{}
	speech := &fakeSpeech{configured: true}

	p := NewTranscriptionPipeline(acquirer, extractor, speech, t.TempDir(), nil)
	out := p.Run(context.Background(), "X1")

	if out.OK {
		t.Fatal("outcome OK despite download failure")
	}
	if out.Stage != domain.StageDownload {
		t.Errorf("Stage = %v, want StageDownload", out.Stage)
	}
	if out.Failure != domain.FailAuthRequired {
		t.Errorf("Failure = %v, want FailAuthRequired", out.Failure)
	}
	if extractor.calls != 0 || speech.calls != 0 {
		t.Error("later stages ran after download failure")
	}
}

func TestPipeline_ExtractFailure(t *testing.T) {
	acquirer := &fakeAcquirer{path: "/tmp/x/video.mp4"}
	extractor := &fakeExtractor{err: domain.ErrCorruptMedia}
	speech := &fakeSpeech{configured: true}

	p := NewTranscriptionPipeline(acquirer, extractor, speech, t.TempDir(), nil)
	out := p.Run(context.Background(), "X1")

	if out.Stage != domain.StageExtract {
		t.Errorf("Stage = %v, want StageExtract", out.Stage)
	}
	if out.Failure != domain.FailCorruptInput {
		t.Errorf("Failure = %v, want FailCorruptInput", out.Failure)
	}
	if speech.calls != 0 {
		t.Error("recognition ran after extraction failure")
	}
}

func TestPipeline_SpeechTimeout(t *testing.T) {
	acquirer := &fakeAcquirer{path: "/tmp/x/video.mp4"}
	extractor := &fakeExtractor{path: "/tmp/x/audio.mp3"}
	speech := &fakeSpeech{configured: true, err: domain.ErrSpeechTimeout}

	p := NewTranscriptionPipeline(acquirer, extractor, speech, t.TempDir(), nil)
	out := p.Run(context.Background(), "X2")

	if out.Stage != domain.StageSpeechToText {
		t.Errorf("Stage = %v, want StageSpeechToText", out.Stage)
	}
	if out.Failure != domain.FailTimeout {
		t.Errorf("Failure = %v, want FailTimeout", out.Failure)
	}
}

func TestPipeline_EmptyTranscript(t *testing.T) {
	acquirer := &fakeAcquirer{path: "/tmp/x/video.mp4"}
	extractor := &fakeExtractor{path: "/tmp/x/audio.mp3"}
	speech := &fakeSpeech{configured: true, text: ""}

	p := NewTranscriptionPipeline(acquirer, extractor, speech, t.TempDir(), nil)
	out := p.Run(context.Background(), "X1")

	if out.OK {
		t.Fatal("outcome OK with empty transcript")
	}
	if out.Failure != domain.FailEmptyResult {
		t.Errorf("Failure = %v, want FailEmptyResult", out.Failure)
	}
}

func TestPipeline_CleansWorkspace(t *testing.T) {
	workDir := t.TempDir()
	acquirer := &fakeAcquirer{path: "/tmp/x/video.mp4"}
	extractor := &fakeExtractor{err: domain.ErrCorruptMedia}
	speech := &fakeSpeech{configured: true}

	p := NewTranscriptionPipeline(acquirer, extractor, speech, workDir, nil)
	p.Run(context.Background(), "X1")

	if acquirer.destDir == "" {
		t.Fatal("no workspace handed to the downloader")
	}
	if _, err := os.Stat(acquirer.destDir); !os.IsNotExist(err) {
		t.Errorf("workspace %s still exists after run", acquirer.destDir)
	}
}

func TestClassifyFailures(t *testing.T) {
	tests := []struct {
		name string
		got  domain.FailureKind
		want domain.FailureKind
	}{
		{"acquire not found", classifyAcquireFailure(domain.ErrVideoNotFound), domain.FailNotFound},
		{"acquire tool missing", classifyAcquireFailure(domain.ErrToolUnavailable), domain.FailToolUnavailable},
		{"acquire deadline", classifyAcquireFailure(context.DeadlineExceeded), domain.FailTimeout},
		{"acquire generic", classifyAcquireFailure(domain.ErrNetworkFailure), domain.FailNetwork},
		{"extract tool missing", classifyExtractFailure(domain.ErrToolUnavailable), domain.FailToolUnavailable},
		{"extract generic", classifyExtractFailure(domain.ErrCorruptMedia), domain.FailCorruptInput},
		{"speech quota", classifySpeechFailure(domain.ErrQuotaExceeded), domain.FailQuotaExceeded},
		{"speech auth", classifySpeechFailure(domain.ErrAuthRequired), domain.FailAuthRequired},
		{"speech empty", classifySpeechFailure(domain.ErrEmptyTranscript), domain.FailEmptyResult},
		{"speech deadline", classifySpeechFailure(context.DeadlineExceeded), domain.FailTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}
