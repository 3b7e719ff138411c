package reader

// Farthest returns how many logical items have ever been produced, i.e. the
// reader's high-water mark regardless of any subsequent RewindTo. It never
// decreases, which is exactly what "deepest reader position reached" error
// localization (specification §7, §9) needs: as each attempt starts, the
// matcher kernel compares this with the deepest position recorded so far, so
// the latest attempt started at the high-water mark names the error hint,
// even after it ultimately backtracks.
func (r *Reader) Farthest() int {
	return len(r.history)
}

// ItemAt returns the item produced at 1-based high-water position pos (as
// returned by Farthest), or the zero Item if pos is out of range.
func (r *Reader) ItemAt(pos int) Item {
	if pos <= 0 || pos > len(r.history) {
		return Item{}
	}
	return r.history[pos-1]
}

// File returns the reader's configured file name.
func (r *Reader) File() string {
	return r.file
}
