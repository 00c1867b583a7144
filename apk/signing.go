// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package apk

import (
	"encoding/hex"
	"reflect"
	"time"

	"go.mozilla.org/pkcs7"
)

// SignerInfo wraps the fields of the APK's JAR-signing PKCS#7 SignedData
// block (META-INF/*.RSA or *.DSA) that identify the signer.
type SignerInfo struct {
	Issuer             string
	Subject            string
	NotBefore          time.Time
	NotAfter           time.Time
	SerialNumber       string
	SignatureAlgorithm string
}

// parseSignerInfo decodes a PKCS#7 SignedData block and extracts the
// signer certificate's identity fields, picking the signer's certificate
// out of the Certificates slice by matching
// IssuerAndSerialNumber.SerialNumber.
func parseSignerInfo(raw []byte) (*SignerInfo, error) {
	p, err := pkcs7.Parse(raw)
	if err != nil {
		return nil, err
	}
	if len(p.Signers) == 0 {
		return nil, ErrNoSignature
	}

	serialNumber := p.Signers[0].IssuerAndSerialNumber.SerialNumber
	info := &SignerInfo{}

	for _, cert := range p.Certificates {
		if !reflect.DeepEqual(cert.SerialNumber, serialNumber) {
			continue
		}

		info.SerialNumber = hex.EncodeToString(cert.SerialNumber.Bytes())
		info.SignatureAlgorithm = cert.SignatureAlgorithm.String()
		info.NotBefore = cert.NotBefore
		info.NotAfter = cert.NotAfter

		if len(cert.Issuer.Country) > 0 {
			info.Issuer = cert.Issuer.Country[0]
		}
		if len(cert.Issuer.Organization) > 0 {
			if info.Issuer != "" {
				info.Issuer += ", "
			}
			info.Issuer += cert.Issuer.Organization[0]
		}
		if info.Issuer != "" {
			info.Issuer += ", "
		}
		info.Issuer += cert.Issuer.CommonName

		if len(cert.Subject.Country) > 0 {
			info.Subject = cert.Subject.Country[0]
		}
		if len(cert.Subject.Organization) > 0 {
			if info.Subject != "" {
				info.Subject += ", "
			}
			info.Subject += cert.Subject.Organization[0]
		}
		if info.Subject != "" {
			info.Subject += ", "
		}
		info.Subject += cert.Subject.CommonName

		break
	}

	return info, nil
}
