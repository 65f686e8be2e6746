package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant       = "ssh://"
	httpsProtocolPrefixConstant     = "https://"
	gitUserPrefixConstant           = "git@"
	sshUserDelimiterConstant        = "@"
	sshPathDelimiterConstant        = ":"
	remotePathSeparatorConstant     = "/"
	gitRepositorySuffixConstant     = ".git"
	remoteURLErrorTemplateConstant  = "%s: %s"
	invalidRemoteURLMessageConstant = "invalid remote url"
	unknownProtocolMessageConstant  = "unsupported remote protocol"
)

// RemoteURLProtocol enumerates remote URL protocols this layer can structure.
type RemoteURLProtocol string

// Supported remote URL protocols.
const (
	RemoteURLProtocolSSH   RemoteURLProtocol = "ssh"
	RemoteURLProtocolHTTPS RemoteURLProtocol = "https"
)

// RemoteURL represents a structured git remote location.
type RemoteURL struct {
	Protocol   RemoteURLProtocol
	Host       string
	Owner      string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be structured.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLErrorTemplateConstant, parseError.Input, parseError.Message)
}

// UnsupportedProtocolError indicates the provided protocol cannot be formatted.
type UnsupportedProtocolError struct {
	Protocol RemoteURLProtocol
}

// Error describes the unsupported protocol.
func (protocolError UnsupportedProtocolError) Error() string {
	return fmt.Sprintf(remoteURLErrorTemplateConstant, protocolError.Protocol, unknownProtocolMessageConstant)
}

// ParseRemoteURL converts a textual remote location into a structured
// representation. Remote URLs are otherwise treated as opaque strings; this
// structure exists for callers presenting remote ownership information.
func ParseRemoteURL(remoteLocation string) (RemoteURL, error) {
	trimmedLocation := strings.TrimSpace(remoteLocation)
	switch {
	case len(trimmedLocation) == 0:
		return RemoteURL{}, RemoteURLParseError{Input: remoteLocation, Message: requiredValueMessageConstant}
	case strings.HasPrefix(trimmedLocation, sshProtocolPrefixConstant):
		return parseSSHRemoteURL(remoteLocation, strings.TrimPrefix(trimmedLocation, sshProtocolPrefixConstant))
	case strings.HasPrefix(trimmedLocation, gitUserPrefixConstant):
		return parseSSHRemoteURL(remoteLocation, trimmedLocation)
	case strings.HasPrefix(trimmedLocation, httpsProtocolPrefixConstant):
		return parseHTTPSRemoteURL(remoteLocation, strings.TrimPrefix(trimmedLocation, httpsProtocolPrefixConstant))
	default:
		return RemoteURL{}, RemoteURLParseError{Input: remoteLocation, Message: invalidRemoteURLMessageConstant}
	}
}

func parseSSHRemoteURL(originalInput string, hostBearingRemainder string) (RemoteURL, error) {
	userDelimiterIndex := strings.Index(hostBearingRemainder, sshUserDelimiterConstant)
	if userDelimiterIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	hostAndPath := hostBearingRemainder[userDelimiterIndex+1:]
	hostDelimiterIndex := strings.Index(hostAndPath, sshPathDelimiterConstant)
	if hostDelimiterIndex == -1 {
		hostDelimiterIndex = strings.Index(hostAndPath, remotePathSeparatorConstant)
	}
	if hostDelimiterIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	remoteHost := hostAndPath[:hostDelimiterIndex]
	ownerAndRepository := strings.Split(hostAndPath[hostDelimiterIndex+1:], remotePathSeparatorConstant)
	if len(ownerAndRepository) != 2 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	repositoryName := strings.TrimSuffix(ownerAndRepository[1], gitRepositorySuffixConstant)
	if len(repositoryName) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{Protocol: RemoteURLProtocolSSH, Host: remoteHost, Owner: ownerAndRepository[0], Repository: repositoryName}, nil
}

func parseHTTPSRemoteURL(originalInput string, hostBearingRemainder string) (RemoteURL, error) {
	pathComponents := strings.Split(hostBearingRemainder, remotePathSeparatorConstant)
	if len(pathComponents) < 3 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	repositoryPath := strings.Join(pathComponents[2:], remotePathSeparatorConstant)
	repositoryName := strings.TrimSuffix(repositoryPath, gitRepositorySuffixConstant)
	if len(repositoryName) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: originalInput, Message: invalidRemoteURLMessageConstant}
	}

	return RemoteURL{Protocol: RemoteURLProtocolHTTPS, Host: pathComponents[0], Owner: pathComponents[1], Repository: repositoryName}, nil
}

// FormatRemoteURL renders a structured remote location back into text.
func FormatRemoteURL(remoteURL RemoteURL) (string, error) {
	for _, requiredComponent := range []string{remoteURL.Host, remoteURL.Owner, remoteURL.Repository} {
		if len(strings.TrimSpace(requiredComponent)) == 0 {
			return "", RemoteURLParseError{Input: requiredComponent, Message: requiredValueMessageConstant}
		}
	}

	switch remoteURL.Protocol {
	case RemoteURLProtocolSSH:
		return fmt.Sprintf("%s%s%s%s%s%s%s", gitUserPrefixConstant, remoteURL.Host, sshPathDelimiterConstant, remoteURL.Owner, remotePathSeparatorConstant, remoteURL.Repository, gitRepositorySuffixConstant), nil
	case RemoteURLProtocolHTTPS:
		return fmt.Sprintf("%s%s%s%s%s%s%s", httpsProtocolPrefixConstant, remoteURL.Host, remotePathSeparatorConstant, remoteURL.Owner, remotePathSeparatorConstant, remoteURL.Repository, gitRepositorySuffixConstant), nil
	default:
		return "", UnsupportedProtocolError{Protocol: remoteURL.Protocol}
	}
}
