// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rejection

import (
	"errors"
	"fmt"
)

// Kind classifies why a submission or a round operation was turned down.
type Kind uint8

const (
	InvalidRound           Kind = iota + 1 // stale or mismatched round identifier
	OutOfRange                             // index outside the snapshot, edge bound or size bound
	InfeasibleAssignment                   // weight sum, nomination or winner count violation
	Outranked                              // queue full and the submission is not competitive
	InsufficientCandidates                 // the snapshot has no viable targets
	DeadlineExceeded                       // submitted outside its phase window
	InsufficientDeposit                    // signed deposit below the required amount
	Known                                  // identical unsigned solution already seen this round
)

var kindNames = map[Kind]string{
	InvalidRound:           "InvalidRound",
	OutOfRange:             "OutOfRange",
	InfeasibleAssignment:   "InfeasibleAssignment",
	Outranked:              "Outranked",
	InsufficientCandidates: "InsufficientCandidates",
	DeadlineExceeded:       "DeadlineExceeded",
	InsufficientDeposit:    "InsufficientDeposit",
	Known:                  "Known",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Error is a typed rejection returned to submitters. None of them is fatal to the node.
type Error struct {
	kind    Kind
	message string
}

// New creates a rejection of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

// Errorf creates a rejection of the given kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.kind.String() + ": " + e.message
}

// Kind returns the rejection kind.
func (e *Error) Kind() Kind {
	return e.kind
}

// Message returns the message without the kind prefix.
func (e *Error) Message() string {
	return e.message
}

// KindOf extracts the rejection kind from err, if err is (or wraps) a rejection.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.kind, true
	}
	return 0, false
}

// Is reports whether err is a rejection of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsRejection reports whether err is any rejection.
func IsRejection(err error) bool {
	_, ok := KindOf(err)
	return ok
}
