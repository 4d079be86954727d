package election

import "github.com/google/uuid"

// Decision is the outcome of the access policy for one viewer and election
type Decision byte

const (
	DecisionDenied Decision = iota
	DecisionMustSignIn
	DecisionAllowed
)

func (d Decision) String() string {
	switch d {
	case DecisionAllowed:
		return "allowed"
	case DecisionMustSignIn:
		return "must_sign_in"
	case DecisionDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// Viewer describes who is looking at an election. Membership flags are
// relative to the election being checked.
type Viewer struct {
	Anonymous      bool
	AccountID      uuid.UUID
	IsVoter        bool
	IsCommissioner bool
}

// AnonymousViewer returns a viewer with no identity
func AnonymousViewer() Viewer {
	return Viewer{Anonymous: true}
}

// Access applies the publicity rule table. Candidate credential pages
// inherit the decision of their parent election.
//
//	private: commissioners of this election only
//	voter:   anonymous must sign in; voters and commissioners allowed
//	public:  anyone may view
func (e *Election) Access(v Viewer) Decision {
	switch e.Publicity {
	case PublicityPrivate:
		if !v.Anonymous && v.IsCommissioner {
			return DecisionAllowed
		}
		return DecisionDenied

	case PublicityVoter:
		if v.Anonymous {
			return DecisionMustSignIn
		}
		if v.IsVoter || v.IsCommissioner {
			return DecisionAllowed
		}
		return DecisionDenied

	case PublicityPublic:
		return DecisionAllowed

	default:
		return DecisionDenied
	}
}

// CanVote reports whether the viewer may cast a ballot in this election.
// Only roster members vote, regardless of publicity; the ballot service
// re-checks the roster against storage before committing anything.
func (e *Election) CanVote(v Viewer) bool {
	if v.Anonymous || !v.IsVoter {
		return false
	}
	return e.Access(v) == DecisionAllowed
}
