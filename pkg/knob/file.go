package knob

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// fileListSeparator joins a file list into the single string stored as
// the knob's dimension 0 value.
const fileListSeparator = ";"

// frameNumberRe extracts the frame number from a sequence file name:
// the last run of digits before the extension, e.g. "shot_0042.exr".
var frameNumberRe = regexp.MustCompile(`(\d+)\.[^./\\]+$`)

// FileKnob is an input file selector. Given a list of file names
// forming an image sequence it maintains a frame-number to file-name
// mapping. The mapping is read by the render thread while the GUI
// thread may replace the file list, so it is guarded by a lock.
type FileKnob struct {
	*Base

	mu     sync.Mutex
	frames map[int]string
	order  []int // frame numbers, ascending
}

// NewFile creates an input file knob owned by h.
func NewFile(h *Holder, description string, dimension int) *FileKnob {
	k := &FileKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *FileKnob) TypeName() string { return "InputFile" }

func (k *FileKnob) CanAnimate() bool { return false }

func (k *FileKnob) fillHashVector() { k.hashValuesAndKeys() }

// SetFiles stores the sequence file list through the normal value
// pipeline; processNewValue rebuilds the frame mapping before the hash
// and notifications fire.
func (k *FileKnob) SetFiles(files []string) {
	k.SetValue(StringValue(strings.Join(files, fileListSeparator)), 0)
}

// Files returns the stored file list.
func (k *FileKnob) Files() []string {
	v, ok := k.values[0]
	if !ok || v.Str() == "" {
		return nil
	}
	return strings.Split(v.Str(), fileListSeparator)
}

// OpenFile asks the presentation layer to show a file chooser.
func (k *FileKnob) OpenFile() { k.emitShouldOpenFile() }

// processNewValue parses the file list into the frame mapping. Files
// without a frame number are skipped.
func (k *FileKnob) processNewValue() {
	frames := make(map[int]string)
	for _, f := range k.Files() {
		m := frameNumberRe.FindStringSubmatch(f)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		frames[n] = f
	}
	order := make([]int, 0, len(frames))
	for n := range frames {
		order = append(order, n)
	}
	sort.Ints(order)

	k.mu.Lock()
	k.frames = frames
	k.order = order
	k.mu.Unlock()
}

// FirstFrame returns the lowest frame number in the sequence.
func (k *FileKnob) FirstFrame() (int, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.order) == 0 {
		return 0, false
	}
	return k.order[0], true
}

// LastFrame returns the highest frame number in the sequence.
func (k *FileKnob) LastFrame() (int, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.order) == 0 {
		return 0, false
	}
	return k.order[len(k.order)-1], true
}

// FrameCount returns the number of frames in the sequence.
func (k *FileKnob) FrameCount() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.frames)
}

// NearestFrame returns the existing frame number closest to f. A
// sequence gap is a normal runtime condition, so a miss reports
// ok=false instead of failing. Equidistant ties break toward the lower
// frame.
func (k *FileKnob) NearestFrame(f int) (int, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.order) == 0 {
		return 0, false
	}
	i := sort.SearchInts(k.order, f)
	if i < len(k.order) && k.order[i] == f {
		return f, true
	}
	if i == 0 {
		return k.order[0], true
	}
	if i == len(k.order) {
		return k.order[len(k.order)-1], true
	}
	lo, hi := k.order[i-1], k.order[i]
	if f-lo <= hi-f {
		return lo, true
	}
	return hi, true
}

// RandomFrameName returns the file name for frame f. When the exact
// frame is missing and loadNearestIfNotFound is set, the nearest
// frame's file is returned instead. A total miss yields "".
func (k *FileKnob) RandomFrameName(f int, loadNearestIfNotFound bool) string {
	k.mu.Lock()
	if name, ok := k.frames[f]; ok {
		k.mu.Unlock()
		return name
	}
	k.mu.Unlock()
	if !loadNearestIfNotFound {
		return ""
	}
	n, ok := k.NearestFrame(f)
	if !ok {
		return ""
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.frames[n]
}

// cloneExtraData copies the parsed frame mapping so a render-thread
// snapshot never re-parses or races the live knob.
func (k *FileKnob) cloneExtraData(other Knob) {
	o := other.(*FileKnob)
	o.mu.Lock()
	frames := make(map[int]string, len(o.frames))
	for n, f := range o.frames {
		frames[n] = f
	}
	order := append([]int(nil), o.order...)
	o.mu.Unlock()

	k.mu.Lock()
	k.frames = frames
	k.order = order
	k.mu.Unlock()
}

func (k *FileKnob) Serialize() (string, error) {
	return serializeStrings(k.Name(), k.values)
}

func (k *FileKnob) restorePayload(data []byte) error {
	values, err := restoreStrings(data)
	if err != nil {
		return err
	}
	k.values = values
	return nil
}

// OutputFileKnob is an output path selector. It holds a single target
// file name rather than a parsed sequence.
type OutputFileKnob struct {
	*Base
}

// NewOutputFile creates an output file knob owned by h.
func NewOutputFile(h *Holder, description string, dimension int) *OutputFileKnob {
	k := &OutputFileKnob{}
	k.Base = newBase(k, h, description, dimension)
	return k
}

func (k *OutputFileKnob) TypeName() string { return "OutputFile" }

func (k *OutputFileKnob) CanAnimate() bool { return false }

func (k *OutputFileKnob) fillHashVector() { k.hashValuesAndKeys() }

// FileName returns the target path.
func (k *OutputFileKnob) FileName() string { return k.Value(0).Str() }

// SetFileName stores the target path.
func (k *OutputFileKnob) SetFileName(name string) { k.SetValue(StringValue(name), 0) }

// OpenFile asks the presentation layer to show a save dialog.
func (k *OutputFileKnob) OpenFile() { k.emitShouldOpenFile() }

func (k *OutputFileKnob) Serialize() (string, error) {
	return serializeStrings(k.Name(), k.values)
}

func (k *OutputFileKnob) restorePayload(data []byte) error {
	values, err := restoreStrings(data)
	if err != nil {
		return err
	}
	k.values = values
	return nil
}
