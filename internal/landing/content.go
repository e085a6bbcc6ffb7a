// Package landing holds the static marketing copy rendered around the lead
// form.
package landing

import "strings"

type NavItem struct {
	Label string
	Href  string
}

type Stat struct {
	Value string
	Label string
}

type Service struct {
	Title       string
	Description string
	Features    []string
}

type Feature struct {
	Title       string
	Description string
}

type Plan struct {
	Name     string
	Price    string
	Popular  bool
	Features []string
}

// Contact is the sales office block.
type Contact struct {
	Phone   string
	Emails  []string
	Address string
	MapURL  string
}

// PhoneHref is the tel: link with spaces removed.
func (c Contact) PhoneHref() string {
	return "tel:" + strings.ReplaceAll(c.Phone, " ", "")
}

// Content is everything the landing page shows besides the form.
type Content struct {
	Company    string
	Tagline    string
	TrustBadge string
	Nav        []NavItem
	HeroStats  []Stat
	Services   []Service
	Features   []Feature
	Benefits   []Feature
	Plans      []Plan
	Contact    Contact
}

// Default returns the Bridgei2p landing copy.
func Default() Content {
	return Content{
		Company:    "Bridgei2p Telecommunications Pvt. Ltd.",
		Tagline:    "VoIP Service Provider in Hyderabad",
		TrustBadge: `DOT Authorized - ISP-VNO Category "A"`,
		Nav: []NavItem{
			{Label: "Services", Href: "#services"},
			{Label: "Features", Href: "#features"},
			{Label: "Benefits", Href: "#benefits"},
			{Label: "Pricing", Href: "#pricing"},
			{Label: "Contact", Href: "#contact"},
		},
		HeroStats: []Stat{
			{Value: "500+", Label: "Businesses Served"},
			{Value: "99.99%", Label: "Uptime Guaranteed"},
			{Value: "24/7", Label: "Expert Support"},
		},
		Services: []Service{
			{
				Title:       "VoIP Business Phone System",
				Description: "Advanced multiline telephone system with call recording, IVR, conference calls, and CRM integration. Perfect for businesses of all sizes.",
				Features:    []string{"Speed Dialing", "Call Recording", "Conference Calls", "CRM Integration"},
			},
			{
				Title:       "Cloud Contact Center",
				Description: "Complete cloud-based contact center solution for handling inbound and outbound customer contacts across multiple channels.",
				Features:    []string{"Multi-channel Support", "Real-time Analytics", "Auto Dialers", "Queue Management"},
			},
		},
		Features: []Feature{
			{"Smart Dialing", "Auto, predictive & progressive dialers"},
			{"Call Forwarding", "Route calls anywhere, anytime"},
			{"Call Transfer", "Seamless call transfers between teams"},
			{"Call Conference", "Multi-party conference calls"},
			{"Call Queuing", "Keep customers engaged during wait"},
			{"Call Recording", "Record & review for quality assurance"},
			{"Voicemail", "Custom voicemail with transcription"},
			{"Call Analytics", "Detailed reports & insights"},
			{"Global Reach", "International toll-free lines"},
			{"IVR System", "Interactive voice response"},
			{"CRM Integration", "Salesforce, Zoho, HubSpot & more"},
			{"Secure & Encrypted", "TLS & SRTP encryption"},
		},
		Benefits: []Feature{
			{"Save Up to 60%", "Cut your monthly phone costs with our budget-friendly VoIP solutions. No contracts, no hidden charges."},
			{"Enterprise Security", "TLS & SRTP encryption, cloud backup with Amazon S3, Google Drive integration. Your data is safe."},
			{"99.99% Uptime", "Modular network by professional engineers. High reliability and dependability guaranteed."},
			{"24/7 Support", "In-house expert support available round the clock. Your business needs are our priority."},
			{"HD Voice Quality", "Crystal-clear HD voice with wide-band audio. No more compromises on call quality."},
			{"Easy Setup", "Simple procedures, no technical expertise needed. Add virtual extensions without cables."},
		},
		Plans: []Plan{
			{
				Name:  "Bridgei2p Core",
				Price: "1,500",
				Features: []string{
					"Unlimited Calls To USA & Canada", "1 Free US Number", "3 Way Calling",
					"Direct End User Support", "Voicemail to Email Notifications", "Call Forwarding",
					"Call Recording", "Call Waiting", "Web Panel Access (Call Logs)",
				},
			},
			{
				Name:  "Bridgei2p Premium",
				Price: "1,850",
				Features: []string{
					"Everything in Bridgei2p Core+", "Black List/Blocking", "Auto Attendant",
					"Call Hunting", "Custom Greetings", "Reports Via Email", "Music On Hold",
					"Standard Call Queue", "Find Me Follow Me", "Caller ID Control", "IVR",
					"Ring Groups", "Country Blocking",
				},
			},
			{
				Name:    "Bridgei2p Optimum",
				Price:   "2,250",
				Popular: true,
				Features: []string{
					"Everything in Bridgei2p Premium+", "Communicator Desktop App", "Call Greetings",
					"Call Park", "Multi-level IVR", "Bridge Conference", "Employee Directory", "Chat",
					"Professionally Recorded Greeting", "Forward To Device", "User Working Hours",
					"Business Hours", "Call Pickup", "Call Monitoring", "Remote Access",
					"CRM Integration (Web Based)",
				},
			},
			{
				Name:  "Bridgei2p Ultimate",
				Price: "2,650",
				Features: []string{
					"Everything in Bridgei2p Optimum+", "Free India Call Forwarding", "Outlook Integration",
					"Communicator Desktop and Mobile App", "Enhanced Call Queue", "Integrated Fax", "SMS",
					"Call Screening", "Speakerphone Page", "Intelligent Reports/Analytics",
				},
			},
			{
				Name:  "Bridgei2p Enterprise",
				Price: "3,250",
				Features: []string{
					"Everything in Bridgei2p Ultimate+", "Web Browser Integration", "Barge/Whisper",
					"Teams Integration", "Skype Integration", "Web Meeting", "Bring Your Own Carrier",
				},
			},
		},
		Contact: Contact{
			Phone:   "+91 91330 15993",
			Emails:  []string{"Jack.s@bridgei2p.com", "sales@bridgei2p.com"},
			Address: "CoKarma - Coworking Space, Plot No. 5, Inorbit Mall Rd, opposite Durgam Cheruvu, Doctor's Colony, HITEC City, Hyderabad, Telangana 500081",
			MapURL:  "https://maps.app.goo.gl/hzE7AJrg2KmMCVNS8",
		},
	}
}
