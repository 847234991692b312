package openrtb_ext

// ImpMediaType is the media type of an impression as it appears in floor
// rule keys. Video is split into instream and outstream by the declared
// placement.
type ImpMediaType string

const (
	ImpMediaTypeBanner         ImpMediaType = "banner"
	ImpMediaTypeVideo          ImpMediaType = "video"
	ImpMediaTypeVideoOutstream ImpMediaType = "video-outstream"
	ImpMediaTypeNative         ImpMediaType = "native"
	ImpMediaTypeAudio          ImpMediaType = "audio"
)
