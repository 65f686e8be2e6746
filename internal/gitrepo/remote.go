package gitrepo

import "strings"

const (
	// DefaultRemoteNameConstant identifies the conventional upstream remote.
	DefaultRemoteNameConstant = "origin"

	remoteListingFetchSuffixConstant = "(fetch)"
	remoteListingPushSuffixConstant  = "(push)"
)

// RemoteDirection describes the directionality of a named remote endpoint.
type RemoteDirection string

// Supported remote directions.
const (
	// RemoteDirectionPushAndFetch marks a remote used for both transfer directions.
	RemoteDirectionPushAndFetch RemoteDirection = "push+fetch"
	// RemoteDirectionPush marks a push-only remote.
	RemoteDirectionPush RemoteDirection = "push"
	// RemoteDirectionFetch marks a fetch-only remote.
	RemoteDirectionFetch RemoteDirection = "fetch"
)

// Remote is a free-standing value describing a named remote endpoint. No
// existence check is performed against any repository; validation is
// delegated entirely to git when the remote is registered.
type Remote struct {
	Name      string
	URL       string
	Direction RemoteDirection
}

// NewRemote constructs a Remote defaulting the name to origin and the
// direction to push and fetch.
func NewRemote(remoteName string, remoteURL string) Remote {
	trimmedName := strings.TrimSpace(remoteName)
	if len(trimmedName) == 0 {
		trimmedName = DefaultRemoteNameConstant
	}
	return Remote{Name: trimmedName, URL: strings.TrimSpace(remoteURL), Direction: RemoteDirectionPushAndFetch}
}

// IsPush reports whether the remote participates in push transfers.
func (remote Remote) IsPush() bool {
	return remote.Direction == RemoteDirectionPush || remote.Direction == RemoteDirectionPushAndFetch
}

// IsFetch reports whether the remote participates in fetch transfers.
func (remote Remote) IsFetch() bool {
	return remote.Direction == RemoteDirectionFetch || remote.Direction == RemoteDirectionPushAndFetch
}

// IsPushAndFetch reports whether the remote participates in both transfer directions.
func (remote Remote) IsPushAndFetch() bool {
	return remote.Direction == RemoteDirectionPushAndFetch
}

// ParseRemoteListing folds verbose remote-listing text (one "name url
// (direction)" entry per line) into Remote values. Entries appearing with
// both directions collapse into a single push-and-fetch remote; first
// appearance order is preserved.
func ParseRemoteListing(listing string) []Remote {
	var orderedRemoteNames []string
	remotesByName := map[string]Remote{}

	for _, listingLine := range splitListingLines(listing) {
		trimmedLine := strings.TrimSpace(listingLine)
		if len(trimmedLine) == 0 {
			continue
		}

		lineFields := strings.Fields(trimmedLine)
		if len(lineFields) < 2 {
			continue
		}

		remoteName := lineFields[0]
		remoteURL := lineFields[1]
		lineDirection := remoteDirectionFromSuffix(lineFields)

		existingRemote, alreadySeen := remotesByName[remoteName]
		if !alreadySeen {
			orderedRemoteNames = append(orderedRemoteNames, remoteName)
			remotesByName[remoteName] = Remote{Name: remoteName, URL: remoteURL, Direction: lineDirection}
			continue
		}

		if existingRemote.Direction != lineDirection {
			existingRemote.Direction = RemoteDirectionPushAndFetch
			remotesByName[remoteName] = existingRemote
		}
	}

	remotes := make([]Remote, 0, len(orderedRemoteNames))
	for _, remoteName := range orderedRemoteNames {
		remotes = append(remotes, remotesByName[remoteName])
	}
	return remotes
}

func remoteDirectionFromSuffix(lineFields []string) RemoteDirection {
	lastField := lineFields[len(lineFields)-1]
	switch lastField {
	case remoteListingFetchSuffixConstant:
		return RemoteDirectionFetch
	case remoteListingPushSuffixConstant:
		return RemoteDirectionPush
	default:
		return RemoteDirectionPushAndFetch
	}
}
