package kg

import (
	"iter"
	"sync"
	"time"
)

// Store is the append-only fact base. Facts are normalized on insertion and
// never mutated or deleted afterwards; duplicates are allowed. Unlike the
// log it models, the store is constructed explicitly and handed to whoever
// needs it, so tests get a fresh instance each.
//
// The mutex exists because the HTTP layer serves requests concurrently;
// consumers still get no cross-request atomicity promise beyond "a snapshot
// is internally consistent".
type Store struct {
	mu        sync.RWMutex
	concepts  []Concept
	relations []Relation
}

// Snapshot is a point-in-time JSON export of the fact base.
type Snapshot struct {
	Concepts  []Concept  `json:"concepts"`
	Relations []Relation `json:"relations"`
	Metadata  Metadata   `json:"metadata"`
}

type Metadata struct {
	TotalConcepts  int    `json:"totalConcepts"`
	TotalRelations int    `json:"totalRelations"`
	Timestamp      string `json:"timestamp"`
}

func NewStore() *Store {
	return &Store{}
}

// NewSeededStore returns a store pre-populated with the bootstrap facts the
// agent ships with.
func NewSeededStore() *Store {
	s := NewStore()
	s.InsertConcept("erc4337", "account_abstraction")
	s.InsertRelation("enables", "erc4337", "paymaster")
	s.InsertConcept("relayer", "bundler")
	s.InsertRelation("involved", "erc4337", "relayer")
	return s
}

// InsertConcept normalizes and appends a concept fact. An empty term is a
// no-op; an empty context defaults to "general".
func (s *Store) InsertConcept(term, context string) {
	term = Normalize(term)
	if term == "" {
		return
	}
	context = Normalize(context)
	if context == "" {
		context = "general"
	}
	s.mu.Lock()
	s.concepts = append(s.concepts, Concept{Term: term, Context: context})
	s.mu.Unlock()
}

// InsertRelation normalizes and appends a relation fact. A triple with fewer
// than three non-empty members is a no-op: no partial fact is ever stored.
func (s *Store) InsertRelation(predicate, subject, object string) {
	predicate = Normalize(predicate)
	subject = Normalize(subject)
	object = Normalize(object)
	if predicate == "" || subject == "" || object == "" {
		return
	}
	s.mu.Lock()
	s.relations = append(s.relations, Relation{Predicate: predicate, Subject: subject, Object: object})
	s.mu.Unlock()
}

// InsertTriple appends a subject/predicate/object triple as extracted by the
// language model. Triples shorter than three elements are silently skipped.
func (s *Store) InsertTriple(triple []string) {
	if len(triple) < 3 {
		return
	}
	s.InsertRelation(triple[1], triple[0], triple[2])
}

// Concepts returns a restartable sequence of concept terms in insertion
// order, duplicates included. A non-empty contextFilter (normalized before
// matching) restricts the sequence to that context.
func (s *Store) Concepts(contextFilter string) iter.Seq[string] {
	filter := Normalize(contextFilter)
	return func(yield func(string) bool) {
		for _, c := range s.snapshotConcepts() {
			if filter != "" && c.Context != filter {
				continue
			}
			if !yield(c.Term) {
				return
			}
		}
	}
}

// Relations returns a restartable sequence of relation facts in insertion order.
func (s *Store) Relations() iter.Seq[Relation] {
	return func(yield func(Relation) bool) {
		for _, r := range s.snapshotRelations() {
			if !yield(r) {
				return
			}
		}
	}
}

// Export produces a consistent point-in-time snapshot of the whole fact base.
func (s *Store) Export() Snapshot {
	s.mu.RLock()
	concepts := make([]Concept, len(s.concepts))
	copy(concepts, s.concepts)
	relations := make([]Relation, len(s.relations))
	copy(relations, s.relations)
	s.mu.RUnlock()

	return Snapshot{
		Concepts:  concepts,
		Relations: relations,
		Metadata: Metadata{
			TotalConcepts:  len(concepts),
			TotalRelations: len(relations),
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
		},
	}
}

// Size returns the total number of stored facts.
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.concepts) + len(s.relations)
}

func (s *Store) snapshotConcepts() []Concept {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Concept, len(s.concepts))
	copy(out, s.concepts)
	return out
}

func (s *Store) snapshotRelations() []Relation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Relation, len(s.relations))
	copy(out, s.relations)
	return out
}
