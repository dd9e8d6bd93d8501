package editor

// Selection and edit focus. The multi-selection drives bulk operations
// (delete, group); the edit focus is the single object the edit panel
// shows, and at most one of current block / current cluster is active.
// When the edit lock is set, clicks keep selecting but the focus stays
// frozen until the lock is released.

// SetCurrentBlock gives a block the edit focus, clearing any cluster
// focus. A missing id or an active edit lock leaves the focus alone.
func (e *Editor) SetCurrentBlock(id int) {
	if e.editLocked || e.blocks[id] == nil {
		return
	}
	e.currentBlock = id
	e.currentCluster = 0
}

// SetCurrentCluster gives a cluster the edit focus, clearing any block
// focus.
func (e *Editor) SetCurrentCluster(id int) {
	if e.editLocked || e.clusters[id] == nil {
		return
	}
	e.currentCluster = id
	e.currentBlock = 0
}

// CurrentBlock returns the focused block id, 0 for none.
func (e *Editor) CurrentBlock() int { return e.currentBlock }

// CurrentCluster returns the focused cluster id, 0 for none.
func (e *Editor) CurrentCluster() int { return e.currentCluster }

// SetEditLock freezes (or unfreezes) the edit focus. Releasing the lock
// does not change what is focused.
func (e *Editor) SetEditLock(locked bool) {
	e.editLocked = locked
}

// EditLocked reports whether the edit focus is frozen.
func (e *Editor) EditLocked() bool { return e.editLocked }

// SelectBlock makes the block the sole selection and focuses it.
func (e *Editor) SelectBlock(id int) {
	if e.blocks[id] == nil {
		return
	}
	e.selectedBlocks = []int{id}
	e.selectedClusters = nil
	e.SetCurrentBlock(id)
}

// ToggleSelectBlock adds the block to the selection, or removes it if
// already selected. Newly added blocks take the edit focus.
func (e *Editor) ToggleSelectBlock(id int) {
	if e.blocks[id] == nil {
		return
	}
	for i, sel := range e.selectedBlocks {
		if sel == id {
			e.selectedBlocks = append(e.selectedBlocks[:i], e.selectedBlocks[i+1:]...)
			return
		}
	}
	e.selectedBlocks = append(e.selectedBlocks, id)
	e.SetCurrentBlock(id)
}

// SelectCluster makes the cluster the sole selection and focuses it.
func (e *Editor) SelectCluster(id int) {
	if e.clusters[id] == nil {
		return
	}
	e.selectedClusters = []int{id}
	e.selectedBlocks = nil
	e.SetCurrentCluster(id)
}

// ToggleSelectCluster adds or removes a cluster from the selection.
func (e *Editor) ToggleSelectCluster(id int) {
	if e.clusters[id] == nil {
		return
	}
	for i, sel := range e.selectedClusters {
		if sel == id {
			e.selectedClusters = append(e.selectedClusters[:i], e.selectedClusters[i+1:]...)
			return
		}
	}
	e.selectedClusters = append(e.selectedClusters, id)
	e.SetCurrentCluster(id)
}

// ClearSelection empties the multi-selection. The edit focus stays.
func (e *Editor) ClearSelection() {
	e.selectedBlocks = nil
	e.selectedClusters = nil
}

// SelectedBlocks returns the selected block ids in click order.
func (e *Editor) SelectedBlocks() []int {
	return append([]int(nil), e.selectedBlocks...)
}

// SelectedClusters returns the selected cluster ids in click order.
func (e *Editor) SelectedClusters() []int {
	return append([]int(nil), e.selectedClusters...)
}

// IsBlockSelected reports whether the block is in the selection.
func (e *Editor) IsBlockSelected(id int) bool {
	for _, sel := range e.selectedBlocks {
		if sel == id {
			return true
		}
	}
	return false
}

// IsClusterSelected reports whether the cluster is in the selection.
func (e *Editor) IsClusterSelected(id int) bool {
	for _, sel := range e.selectedClusters {
		if sel == id {
			return true
		}
	}
	return false
}
