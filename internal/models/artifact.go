package models

import "time"

// ShingleEntry is one window digest with the normalized-line index of the
// window that produced it.
type ShingleEntry struct {
	Hash     string `bson:"hash" json:"hash"`
	Position int    `bson:"position" json:"position"`
}

// Fingerprints holds a document's shingle digests together with the
// parameters that produced them.
type Fingerprints struct {
	Method      string         `bson:"method" json:"method"`
	ShingleSize int            `bson:"shingleSize" json:"shingleSize"`
	Hashes      []ShingleEntry `bson:"hashes" json:"hashes"`
}

// Artifact is a preprocessed submission stored in MongoDB: the raw source
// plus the normalized line sequence and shingle fingerprints the pairwise
// comparisons run on.
type Artifact struct {
	Email           string        `bson:"email" json:"email"`
	AttemptID       string        `bson:"attemptID" json:"attemptID"`
	TestID          string        `bson:"testId" json:"testId"`
	DriveID         string        `bson:"driveId" json:"driveId"`
	Difficulty      string        `bson:"difficulty" json:"difficulty"`
	SourceCode      string        `bson:"sourceCode" json:"sourceCode"`
	QID             int64         `bson:"qId" json:"qId"`
	Language        string        `bson:"language" json:"language"`
	LangCode        string        `bson:"langCode" json:"langCode"`
	NormalizedLines []string      `bson:"normalizedLines" json:"normalizedLines"`
	Fingerprints    *Fingerprints `bson:"fingerprints" json:"fingerprints"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
}
