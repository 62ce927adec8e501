// ABOUTME: User-facing status messages shared by the CLI and TUI
// ABOUTME: Success notices and the fallbacks used when the API gives no reason

package console

const (
	MsgCompanyCreated  = "Company created successfully"
	MsgCompanyUpdated  = "Company updated successfully"
	MsgCompanyDeleted  = "Company deleted successfully"
	MsgProgramCreated  = "Program created successfully"
	MsgProgramUpdated  = "Program updated successfully"
	MsgProgramDeleted  = "Program deleted successfully"
	MsgInstanceCreated = "Instance created successfully"
	MsgInstanceUpdated = "Instance updated successfully"
	MsgInstanceDeleted = "Instance deleted successfully"
	MsgQRDownloaded    = "Encrypted QR downloaded"
	MsgLoggedOut       = "Logged out"
	MsgSignedIn        = "Signed in"

	FailLoadData        = "Failed to load data"
	FailLoadCompanies   = "Failed to load companies"
	FailLoadPrograms    = "Failed to load programs"
	FailSaveCompany     = "Failed to save company"
	FailSaveProgram     = "Failed to save program"
	FailSaveInstance    = "Failed to save instance"
	FailDeleteCompany   = "Failed to delete company"
	FailDeleteProgram   = "Failed to delete program"
	FailDeleteInstance  = "Failed to delete instance"
	FailGenerateQR      = "Failed to generate QR"
	FailLoadInstance    = "Failed to load instance"
	FailSessionExpired  = "Session expired. Run 'cms login' to sign in again."
	FailLicenseRequired = "License dates are required"
	FailSessionEnded    = "Session expired. Please sign in again."
)
