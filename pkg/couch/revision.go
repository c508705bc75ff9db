// Copyright 2025 The Chill Authors
// SPDX-License-Identifier: Apache-2.0

package couch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Revision identifies one version of a stored document. Its string form is
// "<sequence>-<digest>" where the digest is 32 hex characters, e.g.
// "1-1234567890abcdef1234567890abcdef". The client treats it as opaque
// beyond this shape.
type Revision struct {
	sequence uint64
	digest   string
}

const revisionDigestLen = 32

// ParseRevision parses a revision from its string form.
func ParseRevision(s string) (Revision, error) {
	seqStr, digest, ok := strings.Cut(s, "-")
	if !ok {
		return Revision{}, errors.Errorf("invalid revision %q: missing '-' separator", s)
	}
	seq, err := strconv.ParseUint(seqStr, 10, 64)
	if err != nil {
		return Revision{}, errors.Errorf("invalid revision %q: bad sequence number", s)
	}
	if seq == 0 {
		return Revision{}, errors.Errorf("invalid revision %q: sequence number must be positive", s)
	}
	if len(digest) != revisionDigestLen {
		return Revision{}, errors.Errorf("invalid revision %q: digest must be %d characters", s, revisionDigestLen)
	}
	digest = strings.ToLower(digest)
	for _, c := range digest {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return Revision{}, errors.Errorf("invalid revision %q: digest must be hexadecimal", s)
		}
	}
	return Revision{sequence: seq, digest: digest}, nil
}

// MustParseRevision is like ParseRevision but panics on error.
func MustParseRevision(s string) Revision {
	rev, err := ParseRevision(s)
	if err != nil {
		panic(err)
	}
	return rev
}

// SequenceNumber returns the leading update count of the revision.
func (r Revision) SequenceNumber() uint64 { return r.sequence }

// IsZero reports whether the revision is the zero value.
func (r Revision) IsZero() bool { return r.digest == "" }

func (r Revision) String() string {
	return fmt.Sprintf("%d-%s", r.sequence, r.digest)
}

// Equal reports whether two revisions are the same.
func (r Revision) Equal(o Revision) bool {
	return r.sequence == o.sequence && r.digest == o.digest
}

// MarshalJSON encodes the revision as its string form.
func (r Revision) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON decodes the revision from its string form.
func (r *Revision) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return errors.Wrap(err, "revision must be a JSON string")
	}
	rev, err := ParseRevision(s)
	if err != nil {
		return err
	}
	*r = rev
	return nil
}
