package gitrepo_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitshell/internal/gitrepo"
)

const (
	testParserSubtestTemplateConstant = "%d_%s"
)

func TestParseBranchListing(testInstance *testing.T) {
	testCases := []struct {
		name             string
		listing          string
		options          gitrepo.BranchListingOptions
		expectedBranches []string
	}{
		{
			name:             "strips_active_marker_and_indentation",
			listing:          "* main\n  feature/login\n  release-1.2\n",
			options:          gitrepo.BranchListingOptions{},
			expectedBranches: []string{"main", "feature/login", "release-1.2"},
		},
		{
			name:             "preserves_active_marker_when_requested",
			listing:          "  develop\n* main\n",
			options:          gitrepo.BranchListingOptions{PreserveActiveMarker: true},
			expectedBranches: []string{"develop", "* main"},
		},
		{
			name:             "drops_blank_lines_and_carriage_returns",
			listing:          "* main\r\n\r\n  develop\r\n\n",
			options:          gitrepo.BranchListingOptions{},
			expectedBranches: []string{"main", "develop"},
		},
		{
			name:             "empty_listing_yields_no_branches",
			listing:          "\n",
			options:          gitrepo.BranchListingOptions{},
			expectedBranches: nil,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testParserSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedBranches := gitrepo.ParseBranchListing(testCase.listing, testCase.options)
			require.Equal(testInstance, testCase.expectedBranches, parsedBranches)
		})
	}
}

func TestParseBranchListingIsIdempotent(testInstance *testing.T) {
	rawListing := "* main\n  develop\n"

	firstPass := gitrepo.ParseBranchListing(rawListing, gitrepo.BranchListingOptions{})
	secondPassInput := ""
	for _, branchName := range firstPass {
		secondPassInput += branchName + "\n"
	}
	secondPass := gitrepo.ParseBranchListing(secondPassInput, gitrepo.BranchListingOptions{})

	require.Equal(testInstance, firstPass, secondPass)
}

func TestActiveBranchFromListing(testInstance *testing.T) {
	testCases := []struct {
		name           string
		listing        string
		expectedBranch string
		expectedError  error
	}{
		{
			name:           "marker_on_first_line",
			listing:        "* main\n  develop\n",
			expectedBranch: "main",
		},
		{
			name:           "marker_on_middle_line",
			listing:        "  develop\n* feature/login\n  main\n",
			expectedBranch: "feature/login",
		},
		{
			name:           "marker_on_last_line",
			listing:        "  develop\n  main\n* release-1.2\n",
			expectedBranch: "release-1.2",
		},
		{
			name:          "listing_without_marker",
			listing:       "  develop\n  main\n",
			expectedError: gitrepo.ErrActiveBranchNotFound,
		},
		{
			name:          "empty_listing",
			listing:       "",
			expectedError: gitrepo.ErrActiveBranchNotFound,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testParserSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			activeBranch, lookupError := gitrepo.ActiveBranchFromListing(testCase.listing)

			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, lookupError, testCase.expectedError)
				return
			}

			require.NoError(testInstance, lookupError)
			require.Equal(testInstance, testCase.expectedBranch, activeBranch)
		})
	}
}

func TestParseRemoteBranchListing(testInstance *testing.T) {
	testCases := []struct {
		name             string
		listing          string
		expectedBranches []string
	}{
		{
			name:             "drops_symbolic_head_pointer",
			listing:          "  origin/HEAD -> origin/main\n  origin/main\n  origin/develop\n",
			expectedBranches: []string{"origin/main", "origin/develop"},
		},
		{
			name:             "listing_without_head_pointer",
			listing:          "  origin/main\n  upstream/main\n",
			expectedBranches: []string{"origin/main", "upstream/main"},
		},
		{
			name:             "empty_listing_yields_no_branches",
			listing:          "",
			expectedBranches: nil,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testParserSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedBranches := gitrepo.ParseRemoteBranchListing(testCase.listing)
			require.Equal(testInstance, testCase.expectedBranches, parsedBranches)
		})
	}
}

func TestParseTagListing(testInstance *testing.T) {
	testCases := []struct {
		name         string
		listing      string
		expectedTags []string
	}{
		{
			name:         "preserves_emission_order",
			listing:      "v1.0.0\nv1.1.0\nv0.9.0\n",
			expectedTags: []string{"v1.0.0", "v1.1.0", "v0.9.0"},
		},
		{
			name:         "trims_surrounding_whitespace",
			listing:      "  v1.0.0  \n\nv2.0.0\n",
			expectedTags: []string{"v1.0.0", "v2.0.0"},
		},
		{
			name:         "empty_listing_yields_no_tags",
			listing:      "\n\n",
			expectedTags: nil,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(testParserSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			parsedTags := gitrepo.ParseTagListing(testCase.listing)
			require.Equal(testInstance, testCase.expectedTags, parsedTags)
		})
	}
}
