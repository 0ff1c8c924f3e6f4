package testutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// T 테스트 실패를 보고하기 위한 최소 인터페이스입니다.
// *testing.T를 그대로 전달할 수 있습니다.
type T interface {
	Fatalf(format string, args ...interface{})
}

// GenerateSelfSignedCert TLS 서버 테스트용 자체 서명 인증서를 생성합니다.
//
// 127.0.0.1과 localhost로의 접속에 유효한 인증서/키 PEM 파일을 임시
// 디렉토리에 기록하고 경로를 반환합니다. 반환된 정리 함수는 테스트 종료
// 시 반드시 호출해야 합니다.
func GenerateSelfSignedCert(t T) (certFile string, keyFile string, cleanup func()) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("테스트용 개인키 생성 실패: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(time.Now().UnixNano()),
		Subject: pkix.Name{
			Organization: []string{"typhoon-safety-server test"},
			CommonName:   "localhost",
		},
		NotBefore: time.Now().Add(-time.Minute),
		NotAfter:  time.Now().Add(24 * time.Hour),

		KeyUsage:              x509.KeyUsageKeyEncipherment | x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,

		IPAddresses: []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:    []string{"localhost"},
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &priv.PublicKey, priv)
	if err != nil {
		t.Fatalf("테스트용 인증서 생성 실패: %v", err)
	}

	tempDir, err := os.MkdirTemp("", "typhoon-tls-test")
	if err != nil {
		t.Fatalf("임시 디렉토리 생성 실패: %v", err)
	}

	certFile = filepath.Join(tempDir, "cert.pem")
	keyFile = filepath.Join(tempDir, "key.pem")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: derBytes})
	if err := os.WriteFile(certFile, certPEM, 0600); err != nil {
		t.Fatalf("인증서 파일 기록 실패: %v", err)
	}

	privBytes, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatalf("개인키 직렬화 실패: %v", err)
	}
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privBytes})
	if err := os.WriteFile(keyFile, keyPEM, 0600); err != nil {
		t.Fatalf("개인키 파일 기록 실패: %v", err)
	}

	cleanup = func() {
		os.RemoveAll(tempDir)
	}

	return certFile, keyFile, cleanup
}
