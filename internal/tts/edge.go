package tts

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// Microsoft Edge read-aloud endpoint, the same service the upstream system
// synthesized with.
const (
	edgeBaseURL        = "speech.platform.bing.com/consumer/speech/synthesize/readaloud"
	trustedClientToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
	edgeWSSURL         = "wss://" + edgeBaseURL + "/edge/v1?TrustedClientToken=" + trustedClientToken

	chromiumVersion = "143.0.3650.75"
	secMSGECVersion = "1-" + chromiumVersion

	// seconds between the Windows file time epoch and the Unix epoch
	winEpoch = 11644473600
)

var (
	ErrNoAudioReceived    = errors.New("no audio received from server")
	ErrUnexpectedResponse = errors.New("unexpected response from server")
)

// EdgeClient synthesizes speech over the Edge TTS websocket protocol. One
// call is one connection; the client itself is stateless and safe to reuse
// across voices.
type EdgeClient struct {
	Rate   string
	Volume string
	Pitch  string

	ConnectTimeout time.Duration
	ReceiveTimeout time.Duration
}

func NewEdgeClient(rate, volume, pitch string) *EdgeClient {
	if rate == "" {
		rate = "+0%"
	}
	if volume == "" {
		volume = "+0%"
	}
	if pitch == "" {
		pitch = "+0Hz"
	}
	return &EdgeClient{
		Rate:           rate,
		Volume:         volume,
		Pitch:          pitch,
		ConnectTimeout: 10 * time.Second,
		ReceiveTimeout: 60 * time.Second,
	}
}

// Synthesize speaks text with the given voice and writes an mp3 at
// outputPath. On any failure the partial output is removed, so a failed
// attempt never leaves a file behind.
func (c *EdgeClient) Synthesize(ctx context.Context, text, voice, outputPath string) error {
	escaped := html.EscapeString(removeControlCharacters(text))

	partPath := outputPath + ".part"
	out, err := os.Create(partPath)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}

	synthErr := c.stream(ctx, escaped, voice, out)

	if closeErr := out.Close(); synthErr == nil && closeErr != nil {
		synthErr = fmt.Errorf("close audio file: %w", closeErr)
	}
	if synthErr != nil {
		os.Remove(partPath)
		return synthErr
	}

	if err := os.Rename(partPath, outputPath); err != nil {
		os.Remove(partPath)
		return fmt.Errorf("finalize audio file: %w", err)
	}
	return nil
}

func (c *EdgeClient) stream(ctx context.Context, escapedText, voice string, out *os.File) error {
	wsURL := fmt.Sprintf("%s&ConnectionId=%s&Sec-MS-GEC=%s&Sec-MS-GEC-Version=%s",
		edgeWSSURL, connectID(), secMSGEC(), secMSGECVersion)

	headers := http.Header{}
	headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/143.0.0.0 Safari/537.36 Edg/143.0.0.0")
	headers.Set("Origin", "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold")
	headers.Set("Pragma", "no-cache")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Cookie", fmt.Sprintf("muid=%s;", connectID()))

	dialer := websocket.Dialer{HandshakeTimeout: c.ConnectTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return fmt.Errorf("websocket dial error: %w", err)
	}
	defer conn.Close()

	configMsg := fmt.Sprintf("X-Timestamp:%s\r\n"+
		"Content-Type:application/json; charset=utf-8\r\n"+
		"Path:speech.config\r\n\r\n"+
		`{"context":{"synthesis":{"audio":{"metadataoptions":`+
		`{"sentenceBoundaryEnabled":"true","wordBoundaryEnabled":"false"},`+
		`"outputFormat":"audio-24khz-48kbitrate-mono-mp3"}}}}`+"\r\n",
		jsDate())
	if err := conn.WriteMessage(websocket.TextMessage, []byte(configMsg)); err != nil {
		return fmt.Errorf("write config error: %w", err)
	}

	ssml := "<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>" +
		"<voice name='" + voice + "'>" +
		"<prosody pitch='" + c.Pitch + "' rate='" + c.Rate + "' volume='" + c.Volume + "'>" +
		escapedText +
		"</prosody></voice></speak>"
	ssmlMsg := "X-RequestId:" + connectID() + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"X-Timestamp:" + jsDate() + "Z\r\n" +
		"Path:ssml\r\n\r\n" + ssml
	if err := conn.WriteMessage(websocket.TextMessage, []byte(ssmlMsg)); err != nil {
		return fmt.Errorf("write ssml error: %w", err)
	}

	audioReceived := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		conn.SetReadDeadline(time.Now().Add(c.ReceiveTimeout))
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				break
			}
			return fmt.Errorf("read message error: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			headers, _ := parseWireMessage(data)
			switch headers["Path"] {
			case "turn.end":
				if !audioReceived {
					return ErrNoAudioReceived
				}
				return nil
			case "response", "turn.start", "audio.metadata":
				// metadata is not needed; block timing comes from ffprobe
			default:
				return fmt.Errorf("%w: unknown path %q", ErrUnexpectedResponse, headers["Path"])
			}

		case websocket.BinaryMessage:
			if len(data) < 2 {
				return fmt.Errorf("%w: binary message missing header length", ErrUnexpectedResponse)
			}
			headerLength := int(binary.BigEndian.Uint16(data[:2]))
			if headerLength+2 > len(data) {
				return fmt.Errorf("%w: header length exceeds message", ErrUnexpectedResponse)
			}
			headers, body := splitWireMessage(data[2:], headerLength)
			if headers["Path"] != "audio" || len(body) == 0 {
				continue
			}
			if _, err := out.Write(body); err != nil {
				return fmt.Errorf("write audio: %w", err)
			}
			audioReceived = true
		}
	}

	if !audioReceived {
		return ErrNoAudioReceived
	}
	return nil
}

// removeControlCharacters blanks the control characters the service rejects.
func removeControlCharacters(s string) string {
	var result strings.Builder
	for _, r := range s {
		code := int(r)
		if (code >= 0 && code <= 8) || (code >= 11 && code <= 12) || (code >= 14 && code <= 31) {
			result.WriteRune(' ')
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func parseWireMessage(data []byte) (map[string]string, []byte) {
	sep := bytes.Index(data, []byte("\r\n\r\n"))
	if sep < 0 {
		return map[string]string{}, nil
	}
	return splitWireMessage(data, sep)
}

func splitWireMessage(data []byte, headerLength int) (map[string]string, []byte) {
	if headerLength > len(data) {
		headerLength = len(data)
	}
	headers := make(map[string]string)
	for _, line := range bytes.Split(data[:headerLength], []byte("\r\n")) {
		parts := bytes.SplitN(line, []byte(":"), 2)
		if len(parts) == 2 {
			headers[string(parts[0])] = string(parts[1])
		}
	}
	return headers, data[headerLength:]
}

func connectID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return strings.ToUpper(hex.EncodeToString(b))
}

// secMSGEC derives the rolling access token: the current 5-minute window in
// Windows file time hashed with the client token.
func secMSGEC() string {
	ticks := float64(time.Now().UTC().Unix()) + winEpoch
	ticks -= float64(int64(ticks) % 300)
	ticks *= 1e9 / 100

	hash := sha256.Sum256([]byte(fmt.Sprintf("%.0f%s", ticks, trustedClientToken)))
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

func jsDate() string {
	return time.Now().UTC().Format("Mon Jan 02 2006 15:04:05 GMT+0000 (Coordinated Universal Time)")
}
