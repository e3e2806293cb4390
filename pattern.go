package condemus

import "sort"

// PatternState walks the rows of one pattern, dispatches per-channel
// instructions on row entry, and renders per-row sub-segments of the output
// window. Channel slot i plays column i of the pattern.
type PatternState struct {
	proj    *Project
	pattern int
	startAt float64 // track time the pattern was scheduled at

	row        int
	inner      float64 // fraction of the current row already consumed
	speed      float64 // effective row speed, frozen at row entry
	dispatched bool    // current row's instructions already ran
	elapsed    float64 // seconds since pattern start, for command offsets
	channels   []*ChannelState

	commands []int // command indices ordered by offset
	nextCmd  int
}

func newPatternState(proj *Project, pattern int, startAt float64) *PatternState {
	pat := &proj.Patterns[pattern]

	cmds := make([]int, len(pat.Commands))
	for i := range cmds {
		cmds[i] = i
	}
	sort.SliceStable(cmds, func(a, b int) bool {
		return pat.Commands[cmds[a]].Offset < pat.Commands[cmds[b]].Offset
	})

	return &PatternState{
		proj:     proj,
		pattern:  pattern,
		startAt:  startAt,
		channels: make([]*ChannelState, pat.Width),
		commands: cmds,
	}
}

func (ps *PatternState) getPattern() *Pattern {
	return &ps.proj.Patterns[ps.pattern]
}

// rowSpeed is the effective rows-per-second under the transport tempo.
func (ps *PatternState) rowSpeed(tr *Transport) float64 {
	return ps.getPattern().RowSpeed * tr.tempoScale()
}

// dispatchRow runs the current row's instruction cells against the channel
// slots. Called exactly once, when the row is entered.
func (ps *PatternState) dispatchRow() {
	for i, cell := range ps.getPattern().Row(ps.row) {
		ch := ps.channels[i]
		switch cell.Kind {
		case InstructionNote:
			ps.channels[i] = newChannelState(ps.proj, cell.Note)
		case InstructionCut:
			ps.channels[i] = nil
		case InstructionStop:
			if ch != nil {
				ch.stop()
			}
		case InstructionNextLoop:
			if ch != nil && !ch.nextLoop() {
				ps.channels[i] = nil
			}
		case InstructionFade:
			if ch != nil {
				ch.fade(cell.FadeLen)
			}
		case InstructionPause:
			if ch != nil {
				ch.togglePause()
			}
		}
	}
}

// fireCommands applies every command whose offset has been reached.
func (ps *PatternState) fireCommands(tr *Transport) {
	pat := ps.getPattern()
	for ps.nextCmd < len(ps.commands) {
		cmd := pat.Commands[ps.commands[ps.nextCmd]]
		if cmd.Offset > ps.elapsed {
			return
		}
		tr.fire(cmd)
		ps.nextCmd++
	}
}

func (ps *PatternState) renderChannels(left, right AudioBufferSlice, tr *Transport) {
	for i, ch := range ps.channels {
		if ch == nil {
			continue
		}
		ch.render(left, right, tr.Volume)
		if ch.finished() {
			ps.channels[i] = nil
		}
	}
}

func (ps *PatternState) channelsEmpty() bool {
	for _, ch := range ps.channels {
		if ch != nil {
			return false
		}
	}
	return true
}

// render walks the window row by row. Commands fire at row entries, the
// row speed they produce freezes for that row, and the transport clock is
// pushed forward at every subsegment boundary so slides progress inside a
// single call and a split schedule walks the same trajectory. The return
// value is true once the pattern has run out of rows and every voice has
// died; live voices keep ringing past the last row until then.
func (ps *PatternState) render(left, right AudioBufferSlice, tr *Transport) bool {
	height := ps.getPattern().Height
	remaining := left.LenSecs()
	offs := 0.0

	for remaining > 0 {
		if ps.row >= height {
			// Tail: no more rows to dispatch, let voices ring out.
			ps.fireCommands(tr)
			ps.renderChannels(left.Window(offs, offs+remaining), right.Window(offs, offs+remaining), tr)
			ps.elapsed += remaining
			tr.advanceTo(ps.startAt + ps.elapsed)
			break
		}

		if ps.inner == 0 && !ps.dispatched {
			ps.dispatchRow()
			ps.fireCommands(tr)
			ps.dispatched = true
			ps.speed = ps.rowSpeed(tr)
		}

		if ps.speed <= 0 {
			// Degenerate row speed: silence until the tempo moves again.
			ps.speed = ps.rowSpeed(tr)
			if ps.speed <= 0 {
				return false
			}
		}

		rowLeft := (1 - ps.inner) / ps.speed
		if remaining < rowLeft {
			ps.renderChannels(left.Window(offs, offs+remaining), right.Window(offs, offs+remaining), tr)
			ps.inner += remaining * ps.speed
			ps.elapsed += remaining
			tr.advanceTo(ps.startAt + ps.elapsed)
			break
		}

		ps.renderChannels(left.Window(offs, offs+rowLeft), right.Window(offs, offs+rowLeft), tr)
		offs += rowLeft
		remaining -= rowLeft
		ps.elapsed += rowLeft
		ps.row++
		ps.inner = 0
		ps.dispatched = false
		tr.advanceTo(ps.startAt + ps.elapsed)
	}

	return ps.row >= height && ps.channelsEmpty()
}
