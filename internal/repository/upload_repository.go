package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/fadilmartias/resume-screener/internal/model"
)

var ErrUploadNotFound = errors.New("staged upload not found")

// UploadRepository is the staging area for resumes uploaded ahead of an
// analysis run. Re-uploading a name replaces the earlier content.
type UploadRepository struct {
	mu    sync.Mutex
	files map[string][]byte
}

func NewUploadRepository() *UploadRepository {
	return &UploadRepository{files: make(map[string][]byte)}
}

func (r *UploadRepository) Put(name string, content []byte) {
	data := make([]byte, len(content))
	copy(data, content)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[name] = data
}

// Snapshot returns the staged resumes ordered by file name.
func (r *UploadRepository) Snapshot() []model.ResumeRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.ResumeRecord, 0, len(r.files))
	for name, data := range r.files {
		out = append(out, model.ResumeRecord{FileName: name, Content: data})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out
}

func (r *UploadRepository) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.files))
	for name := range r.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *UploadRepository) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.files[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUploadNotFound, name)
	}
	delete(r.files, name)
	return nil
}

// Remove drops the given names, ignoring ones already gone.
func (r *UploadRepository) Remove(names []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		delete(r.files, name)
	}
}

// Clear empties the staging area and reports how many files were dropped.
func (r *UploadRepository) Clear() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.files)
	r.files = make(map[string][]byte)
	return n
}

func (r *UploadRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}
