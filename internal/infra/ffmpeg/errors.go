package ffmpeg

import "errors"

// Stream-level failure kinds. Per-frame degeneracies never surface here;
// they are measurements without an angle.
var (
	// ErrSourceUnreadable marks a source that is not a decodable video.
	// Fatal, no retry.
	ErrSourceUnreadable = errors.New("source video unreadable")

	// ErrOutputUnwritable marks an output destination that cannot be
	// written (permissions, disk full, dead encoder).
	ErrOutputUnwritable = errors.New("output destination unwritable")

	// ErrTranscodeFailed marks a failed raw→H.264 pass. A raw but
	// untranscoded artifact is not a successful outcome.
	ErrTranscodeFailed = errors.New("transcode failed")
)
