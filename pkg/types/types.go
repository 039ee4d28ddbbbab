package types

// ID is the unique key of a stored green space. IDs are issued by the
// allocator and never reused, even after the record is deleted.
type ID = uint64

// SeqN orders journal entries.
type SeqN = uint64
