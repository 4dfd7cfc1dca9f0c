package seo

import "quillmarketing.com/quill-web/internal/head"

// Scope groups the bindings mounted for one navigation. Release unmounts the
// structured data it owns; page metadata is left for the next page to
// overwrite.
type Scope struct {
	w       TagWriter
	site    Site
	page    *PageMetadata
	schemas []*StructuredData
}

// Acquire opens a scope over w.
func Acquire(w TagWriter, site Site) *Scope {
	return &Scope{w: w, site: site, page: NewPageMetadata(w, site)}
}

// Page applies page metadata.
func (s *Scope) Page(opts PageOptions) Meta {
	return s.page.Apply(opts)
}

// Mount binds schema, reusing the binding already holding its id.
func (s *Scope) Mount(schema Schema) *StructuredData {
	for _, b := range s.schemas {
		if b.Key() == schema.ID() {
			b.Update(schema)
			return b
		}
	}
	b := NewStructuredData(s.w, s.site)
	b.Mount(schema)
	s.schemas = append(s.schemas, b)
	return b
}

// Mounted lists the script ids currently held by the scope.
func (s *Scope) Mounted() []head.TagKey {
	out := make([]head.TagKey, 0, len(s.schemas))
	for _, b := range s.schemas {
		if b.Mounted() {
			out = append(out, b.Key())
		}
	}
	return out
}

// Release unmounts every schema in the scope. It is safe to call twice.
func (s *Scope) Release() {
	for _, b := range s.schemas {
		b.Unmount()
	}
	s.schemas = nil
}
