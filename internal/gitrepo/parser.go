package gitrepo

import "strings"

const (
	lineBreakConstant                = "\n"
	carriageReturnConstant           = "\r"
	activeBranchMarkerPrefixConstant = "* "
	headAliasMarkerConstant          = "->"
)

// BranchListingOptions controls branch-listing parsing.
type BranchListingOptions struct {
	// PreserveActiveMarker keeps the leading "* " active-branch marker so callers can locate it.
	PreserveActiveMarker bool
}

// ParseBranchListing splits raw branch-listing text into branch names,
// trimming each line and dropping lines that become empty. Emission order is
// preserved; no sorting is imposed.
func ParseBranchListing(listing string, options BranchListingOptions) []string {
	var branchNames []string
	for _, listingLine := range splitListingLines(listing) {
		trimmedLine := strings.TrimSpace(listingLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if !options.PreserveActiveMarker {
			trimmedLine = strings.TrimSpace(strings.TrimPrefix(trimmedLine, activeBranchMarkerPrefixConstant))
			if len(trimmedLine) == 0 {
				continue
			}
		}
		branchNames = append(branchNames, trimmedLine)
	}
	return branchNames
}

// ActiveBranchFromListing selects the single line carrying the active-branch
// marker and returns its name with the marker stripped. A listing without a
// marked line yields ErrActiveBranchNotFound.
func ActiveBranchFromListing(listing string) (string, error) {
	for _, branchName := range ParseBranchListing(listing, BranchListingOptions{PreserveActiveMarker: true}) {
		if strings.HasPrefix(branchName, activeBranchMarkerPrefixConstant) {
			return strings.TrimSpace(strings.TrimPrefix(branchName, activeBranchMarkerPrefixConstant)), nil
		}
	}
	return "", ErrActiveBranchNotFound
}

// ParseRemoteBranchListing applies the branch-listing rules and additionally
// drops lines encoding a symbolic HEAD pointer rather than a real branch.
func ParseRemoteBranchListing(listing string) []string {
	var remoteBranchNames []string
	for _, branchName := range ParseBranchListing(listing, BranchListingOptions{}) {
		if strings.Contains(branchName, headAliasMarkerConstant) {
			continue
		}
		remoteBranchNames = append(remoteBranchNames, branchName)
	}
	return remoteBranchNames
}

// ParseTagListing splits raw tag-listing text into tag names, trimming each
// line and dropping empties. No marker handling applies to tags.
func ParseTagListing(listing string) []string {
	var tagNames []string
	for _, listingLine := range splitListingLines(listing) {
		trimmedLine := strings.TrimSpace(listingLine)
		if len(trimmedLine) == 0 {
			continue
		}
		tagNames = append(tagNames, trimmedLine)
	}
	return tagNames
}

func splitListingLines(listing string) []string {
	normalizedListing := strings.ReplaceAll(listing, carriageReturnConstant, "")
	return strings.Split(normalizedListing, lineBreakConstant)
}
