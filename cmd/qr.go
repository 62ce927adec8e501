// ABOUTME: QR payload commands for the cms CLI
// ABOUTME: Encrypts and decrypts payloads with the configured QR secret

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/centerops/cms-console/internal/qrcrypt"
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Encrypt or decrypt QR payloads",
	Long: `Encrypt or decrypt QR payloads with CMS_QR_SECRET. The ciphertext is
compatible with the mobile scanner and with 'openssl enc -aes-256-cbc -md md5'
applied twice.`,
}

var qrEncodeCmd = &cobra.Command{
	Use:   "encode <plaintext>",
	Short: "Encrypt a payload",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runQREncode(os.Stdout, args[0]))
	},
}

var qrDecodeCmd = &cobra.Command{
	Use:   "decode <ciphertext>",
	Short: "Decrypt a payload",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runQRDecode(os.Stdout, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(qrCmd)
	qrCmd.AddCommand(qrEncodeCmd, qrDecodeCmd)
}

func qrObfuscator(w io.Writer) (qrcrypt.Obfuscator, bool) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return qrcrypt.Obfuscator{}, false
	}
	return qrcrypt.New(cfg.QRSecret), true
}

// runQREncode prints the encrypted payload and returns exit code
func runQREncode(w io.Writer, plaintext string) int {
	qr, ok := qrObfuscator(w)
	if !ok {
		return exitError
	}
	encoded := qr.Encode(plaintext)
	if encoded == "" {
		fmt.Fprintln(w, "Error: encryption failed")
		return exitError
	}
	if IsJSONOutput() {
		printJSON(w, map[string]string{"ciphertext": encoded})
		return exitOK
	}
	fmt.Fprintln(w, encoded)
	return exitOK
}

// runQRDecode prints the decrypted payload and returns exit code. A wrong
// secret or malformed input decrypts to nothing and exits 1.
func runQRDecode(w io.Writer, ciphertext string) int {
	qr, ok := qrObfuscator(w)
	if !ok {
		return exitError
	}
	plain := qr.Decode(strings.TrimSpace(ciphertext))
	if plain == "" {
		fmt.Fprintln(w, "Error: payload could not be decrypted with this secret")
		return exitFailed
	}
	if IsJSONOutput() {
		printJSON(w, map[string]string{"plaintext": plain})
		return exitOK
	}
	fmt.Fprintln(w, plain)
	return exitOK
}
