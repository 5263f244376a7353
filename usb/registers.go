// USB core and USBPHY register layout (56.6, IMX6ULLRM; identical field
// layout on the i.MX RT USBOH3USBO2/USBPHY instances this driver targets).
// https://github.com/nxp-rt/imxrt-usbd
//
// Use of this source code is governed by the license
// that can be found in the LICENSE file.

package usb

// USBPHY register offsets, relative to the PHY base address.
const (
	phyPWD  = 0x00
	phyCTRL = 0x30

	ctrlSFTRST = 31
	ctrlCLKGATE = 30
)

// USB core register offsets, relative to the USB base address.
const (
	regUSBCMD = 0x140
	cmdRST    = 1
	cmdRS     = 0
	cmdSUTW   = 13

	regUSBSTS = 0x144
	stsURI    = 6 // reset
	stsSLI    = 8 // suspend
	stsPCI    = 2 // port change (used to detect resume)
	stsUI     = 0

	regUSBINTR = 0x148
	intrURE    = 6
	intrUE     = 0
	intrUEE    = 1
	intrSLE    = 8
	intrPCE    = 2

	regDEVICEADDR    = 0x154
	deviceaddrUSBADR = 25
	deviceaddrUSBADRMask = 0x7f
	deviceaddrADRA   = 24

	regENDPOINTLISTADDR = 0x158

	regPORTSC1 = 0x184
	portscPFSC = 24
	portscPR   = 8

	regUSBMODE      = 0x1a8
	usbmodeCM       = 0
	usbmodeCMMask   = 0b11
	usbmodeCMDevice = 0b10
	usbmodeSLOM     = 3
	usbmodeSDIS     = 4

	regENDPTSETUPSTAT = 0x1ac

	regENDPTPRIME = 0x1b0
	primeERB      = 0  // OUT, bit+n
	primeETB      = 16 // IN, bit+n

	regENDPTFLUSH = 0x1b4
	flushFERB     = 0
	flushFETB     = 16

	regENDPTSTAT = 0x1b8

	regENDPTCOMPLETE = 0x1bc
	completeERBR     = 0
	completeETBR     = 16

	regENDPTCTRL = 0x1c0 // + 4*n

	ectrlRXS = 0
	ectrlRXT = 2
	ectrlRXR = 6
	ectrlRXE = 7
	ectrlTXS = 16
	ectrlTXT = 18
	ectrlTXR = 22
	ectrlTXE = 23

	// GPT registers share the USB core block.
	regGPTIMER0LD   = 0x80
	regGPTIMER0CTRL = 0x84
	regGPTIMER1LD   = 0x88
	regGPTIMER1CTRL = 0x8c

	gptctrlRUN  = 31
	gptctrlMODE = 30
	gptctrlRST  = 29
	gptctrlOE   = 28 // GPT output enable, not used by this driver
	gptctrlIE   = 27
	gptctrlLD   = 0
)

// primeRetryLimit bounds the busy-wait in Prime for the case where
// ENDPTSTAT fails to assert promptly because hardware is mid-setup (§5).
const primeRetryLimit = 1000
